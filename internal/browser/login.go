package browser

// LoginForm describes how to find the authentication form fields on the
// portal's login page. Each field carries a chain of selector hints tried
// in order, so a portal redesign means a new LoginForm value, not new
// code. The chains are site-coupled by nature.
type LoginForm struct {
	// LoginFragment identifies an authentication redirect when present
	// in the page URL.
	LoginFragment string
	// AppFragment identifies the application URL reached after a
	// successful login.
	AppFragment string

	AccountHints  []string
	UsernameHints []string
	PasswordHints []string
	SubmitHints   []string
}

// DefaultLoginForm matches the portal's Keycloak login page, with
// positional fallbacks for the unnamed-field variant.
func DefaultLoginForm() LoginForm {
	return LoginForm{
		LoginFragment: "login",
		AppFragment:   "/web/",
		AccountHints: []string{
			`input[name="account"]`,
			`input[id="account"]`,
			`input[autocomplete="username"]`,
			`input[type="text"]:first-of-type`,
		},
		UsernameHints: []string{
			`input[name="username"]`,
			`input[id="username"]`,
			`input[type="text"]:nth-of-type(2)`,
		},
		PasswordHints: []string{
			`input[type="password"]`,
			`input[name="password"]`,
			`input[id="password"]`,
		},
		SubmitHints: []string{
			`button[type="submit"]`,
			`input[type="submit"]`,
		},
	}
}
