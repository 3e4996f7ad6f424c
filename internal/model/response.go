package model

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type LoginResponse struct {
	APIResponse
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ForgotPasswordResponse struct {
	APIResponse
	ResetPasswordLink string `json:"resetPasswordLink"`
}

type UserResponse struct {
	APIResponse
	User User `json:"user"`
}

type UserListResponse struct {
	APIResponse
	Users []User `json:"users"`
}

type TransactionResponse struct {
	APIResponse
	Transaction Transaction `json:"transaction"`
}

type TransactionListResponse struct {
	APIResponse
	TransactionList
}
