package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=student mentor institution parent"`
	// Student-only birth data, used for age banding
	BirthMonth int `json:"birthMonth" binding:"omitempty,min=1,max=12"`
	BirthYear  int `json:"birthYear" binding:"omitempty,min=1900"`
}

// RegisterResponse represents the result of a registration
type RegisterResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the token pair returned by login and refresh
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`        // Seconds
	RefreshExpiresIn int    `json:"refreshExpiresIn"` // Seconds
	UserID           string `json:"userId"`
	Role             string `json:"role"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
