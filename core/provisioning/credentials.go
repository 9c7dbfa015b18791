package provisioning

// Credentials holds the per-session bearer token used to authorize backend
// persistence and evaluation calls. The token never appears in formatted
// output.
type Credentials struct {
	token string
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Token returns the raw bearer token.
func (c *Credentials) Token() string {
	if c == nil {
		return ""
	}
	return c.token
}

func (c *Credentials) String() string   { return "Credentials(redacted)" }
func (c *Credentials) GoString() string { return "Credentials(redacted)" }
