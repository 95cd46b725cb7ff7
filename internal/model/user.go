package model

// User is the identity persisted alongside the token.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	RepID *int64 `json:"repId"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type RegisterRequest struct {
	FullName   string `json:"nomeCompleto"`
	Email      string `json:"email"`
	Password   string `json:"senha"`
	University string `json:"universidade"`
	Year       int    `json:"ano"`
	Course     string `json:"curso"`
	PhotoURL   string `json:"fotoUrl"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	RepID *int64 `json:"repId"`
}

type Profile struct {
	ID         int64  `json:"id"`
	FullName   string `json:"nomeCompleto"`
	Email      string `json:"email"`
	PhotoURL   string `json:"fotoUrl,omitempty"`
	Course     string `json:"curso,omitempty"`
	University string `json:"universidade,omitempty"`
	Year       *int   `json:"ano,omitempty"`
}

type ProfileUpdate struct {
	FullName   string `json:"nomeCompleto,omitempty"`
	PhotoURL   string `json:"fotoUrl,omitempty"`
	Course     string `json:"curso,omitempty"`
	University string `json:"universidade,omitempty"`
	Year       *int   `json:"ano,omitempty"`
}
