package model

import "fmt"

// Role is a member's function in the household. The server is authoritative.
type Role string

const (
	RoleAdmin     Role = "ADM"
	RoleMember    Role = "MEMBRO"
	RoleAggregate Role = "AGREGADO"
	RoleFormer    Role = "EX_MORADOR"
)

var Roles = []Role{RoleAdmin, RoleMember, RoleAggregate, RoleFormer}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleAggregate, RoleFormer:
		return true
	}
	return false
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(upper(s))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Member struct {
	UserID   int64  `json:"usuarioId"`
	Name     string `json:"nome"`
	PhotoURL string `json:"fotoUrl,omitempty"`
	Role     Role   `json:"funcao"`
	Nickname string `json:"apelido,omitempty"`
}

type InviteRequest struct {
	Role       Role `json:"tipoMembro"`
	MaxUses    int  `json:"limiteUsos"`
	ValidHours int  `json:"horasValidade"`
}

type Invite struct {
	Link      string `json:"link"`
	Token     string `json:"token"`
	ExpiresAt string `json:"dataExpiracao"`
	Message   string `json:"mensagem"`
}

type JoinRequest struct {
	Token string `json:"token"`
}

type JoinResponse struct {
	ID                int64  `json:"id"`
	Message           string `json:"mensagem,omitempty"`
	RegistrationToken string `json:"tokenCadastro,omitempty"`
}
