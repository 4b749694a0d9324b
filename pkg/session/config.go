package session

// Config carries the session defaults supplied by the host application.
type Config struct {
	// SocialNetwork identifies the third-party identity provider used for
	// open-id logins, e.g. a platform vendor code.
	SocialNetwork string `env:"SOCIAL_NETWORK"`

	// SocialNetworkAppID is the application identity registered with the
	// provider.
	SocialNetworkAppID string `env:"SOCIAL_NETWORK_APP_ID"`

	// Default avatars assigned when a profile has a gender but no avatar.
	DefaultAvatarMale   string `env:"DEFAULT_AVATAR_MALE"`
	DefaultAvatarFemale string `env:"DEFAULT_AVATAR_FEMALE"`

	// LoginPage is the view ConfirmLogin navigates to.
	LoginPage string `env:"LOGIN_PAGE" envDefault:"Login"`
}

func (c *Config) normalize() {
	if c.LoginPage == "" {
		c.LoginPage = "Login"
	}
}
