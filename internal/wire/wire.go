// Package wire fixes the request/response shapes and endpoint paths of
// the ledger protocol. The HTTP handlers and the remote backend both bind
// to these types, so the two sides cannot drift apart.
//
// Conventions: every operation is a POST under /api, fields are
// snake_case, timestamps travel as unix seconds, amounts as decimal
// strings.
package wire

// Endpoint paths, one per backend operation.
const (
	PathGetUserByToken         = "/api/get-user-by-token"
	PathLoginUser              = "/api/login-user"
	PathCreateUser             = "/api/create-user"
	PathUpdateUserName         = "/api/update-user-name"
	PathUpdateUserEmail        = "/api/update-user-email"
	PathUpdateUserPassword     = "/api/update-user-password"
	PathCheckUserPassword      = "/api/check-user-password"
	PathCheckUserRole          = "/api/check-user-role"
	PathCheckCurrentUserRole   = "/api/check-current-user-role"
	PathGetUser                = "/api/get-user"
	PathGetUserAvatar          = "/api/get-user-avatar"
	PathGetUserByEmail         = "/api/get-user-by-email"
	PathGetUsersByName         = "/api/get-users-by-name"
	PathGetUsersByAccountRole  = "/api/get-users-by-account-id-and-role"
	PathCountUsersByAccount    = "/api/get-users-count-by-account-id-and-role"
	PathCreateAccount          = "/api/create-account"
	PathDeleteAccount          = "/api/delete-account"
	PathGetAccount             = "/api/get-account"
	PathGetAccounts            = "/api/get-accounts"
	PathGetAccountsCount       = "/api/get-accounts-count"
	PathUpdateAccountName      = "/api/update-account-name"
	PathAddAccountManager      = "/api/add-account-manager"
	PathDeleteAccountManager   = "/api/delete-account-manager"
	PathCreateRecord           = "/api/create-record"
	PathDeleteRecord           = "/api/delete-record"
	PathUpdateRecord           = "/api/update-record"
	PathGetRecordsByAccount    = "/api/get-records-by-account-id"
	PathCountRecordsByAccount  = "/api/get-records-count-by-account-id"
	PathSumAmountByAccount     = "/api/get-amount-sum-by-account-id"
	PathSearchUsers            = "/api/search-users"
)

// ---- requests ----

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type IDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type CheckUserRoleRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	AccountID int64 `json:"account_id" binding:"required"`
	Role      int   `json:"role" binding:"required"`
}

type CheckCurrentUserRoleRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
	Role      int   `json:"role" binding:"required"`
}

type UsersByNameRequest struct {
	Name     string `json:"name" binding:"required"`
	PageSize int    `json:"page_size"`
	PageID   int    `json:"page_id"`
}

type UsersByAccountRoleRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
	Role      int   `json:"role" binding:"required"`
	PageSize  int   `json:"page_size"`
	PageID    int   `json:"page_id"`
}

type UsersCountByAccountRoleRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
	Role      int   `json:"role" binding:"required"`
}

// Role is not "required": zero is outside the role scale but a legal
// filter value, and the exact-equality listing answers it with an empty
// page rather than a binding error.
type AccountsRequest struct {
	Role     int `json:"role"`
	PageSize int `json:"page_size"`
	PageID   int `json:"page_id"`
}

type AccountsCountRequest struct {
	Role int `json:"role"`
}

type UpdateAccountNameRequest struct {
	ID   int64  `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type AccountManagerRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	AccountID int64 `json:"account_id" binding:"required"`
}

type CreateRecordRequest struct {
	Name       string `json:"name" binding:"required"`
	RecordType int    `json:"record_type" binding:"required"`
	Date       int64  `json:"date"`
	Amount     string `json:"amount" binding:"required"`
	AccountID  int64  `json:"account_id" binding:"required"`
}

type UpdateRecordRequest struct {
	ID         int64  `json:"id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	RecordType int    `json:"record_type" binding:"required"`
	Date       int64  `json:"date"`
	Amount     string `json:"amount" binding:"required"`
}

type RecordsByAccountRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
	PageSize  int   `json:"page_size"`
	PageID    int   `json:"page_id"`
}

type AccountIDRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
}

type SearchUsersRequest struct {
	Query string `json:"query" binding:"required"`
	Size  int    `json:"size"`
}

// ---- responses ----

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// UserPayload never carries the password credential.
type UserPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	CreateTime int64  `json:"create_time"`
}

type AccountPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CreateTime int64  `json:"create_time"`
}

type RecordPayload struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Type               int    `json:"type"`
	Date               int64  `json:"date"`
	Amount             string `json:"amount"`
	AccountID          int64  `json:"account_id"`
	CreateUserID       int64  `json:"create_user_id"`
	LastModifiedUserID int64  `json:"last_modified_user_id"`
	CreateTime         int64  `json:"create_time"`
}

type OKPayload struct {
	OK bool `json:"ok"`
}

type CountPayload struct {
	Count int64 `json:"count"`
}

type AmountPayload struct {
	Amount string `json:"amount"`
}

type AvatarPayload struct {
	URL string `json:"url"`
}
