package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWelcomeJobKeepsNameAcrossQueue(t *testing.T) {
	// The job travels the queue as JSON; the worker must render the
	// greeting with the name the publisher put in.
	published := NewWelcomeJob("ada@star.com", "Ada")
	raw, err := json.Marshal(published)
	require.NoError(t, err)

	var consumed EmailJob
	require.NoError(t, json.Unmarshal(raw, &consumed))

	subject, text, err := consumed.Render()
	require.NoError(t, err)
	require.Equal(t, "Welcome to Starbook", subject)
	require.Contains(t, text, "Hi Ada,")
	require.Equal(t, "ada@star.com", consumed.To)
}

func TestWelcomeJobMissingNameFallsBack(t *testing.T) {
	job := EmailJob{Template: "welcome"}
	_, text, err := job.Render()
	require.NoError(t, err)
	require.Contains(t, text, "Hi there,")
}

func TestRenderPassthrough(t *testing.T) {
	job := EmailJob{Subject: "s", Text: "t"}
	subject, text, err := job.Render()
	require.NoError(t, err)
	require.Equal(t, "s", subject)
	require.Equal(t, "t", text)
}

func TestRenderUnknownTemplate(t *testing.T) {
	job := EmailJob{Template: "farewell"}
	_, _, err := job.Render()
	require.Error(t, err)
}
