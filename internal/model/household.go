package model

type Address struct {
	Name       string `json:"nome"`
	Street     string `json:"rua"`
	Number     string `json:"numero"`
	District   string `json:"bairro"`
	PostalCode string `json:"cep"`
	Email      string `json:"email"`
}

type CreateRepRequest struct {
	Name    string  `json:"nome"`
	Email   string  `json:"email"`
	Address Address `json:"endereco"`
}

type CreateRepResponse struct {
	ID                int64  `json:"id"`
	RegistrationToken string `json:"tokenCadastro,omitempty"`
}
