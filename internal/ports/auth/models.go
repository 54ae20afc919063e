package auth

// Claims representa la información extraída del token.
// OrganizationID es la organización activa de la sesión, si Odin la informa.
type Claims struct {
	UserID         string
	Email          string
	OrganizationID string
}
