package credentials

// File is the TOML layout of the credentials file: one flat [credentials]
// table.
type File struct {
	Credentials Credentials `toml:"credentials"`
}

// Credentials holds the Imgur application and user tokens.
type Credentials struct {
	ClientID     string `toml:"client_id" ini:"client_id"`
	ClientSecret string `toml:"client_secret" ini:"client_secret"`
	AccessToken  string `toml:"access_token" ini:"access_token"`
	RefreshToken string `toml:"refresh_token" ini:"refresh_token"`
}

// HasClient reports whether both application credentials are present.
func (c *Credentials) HasClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
