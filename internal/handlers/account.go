package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "cardly/internal/log"
	"cardly/internal/views/pages"
)

const (
	msgCredentialsRequired = "Email and password are required."
	msgSignInFailed        = "We were unable to sign you in. Please try again."
	msgInvalidEmail        = "Please provide a valid email address."
	msgPasswordTooShort    = "Password must be at least 8 characters long."
	msgPasswordMismatch    = "Passwords do not match."
	msgEmailTaken          = "An account with that email already exists."
	msgSignupUnavailable   = "We couldn't create your account right now. Please try again."
	msgSignupNoSession     = "We couldn't sign you in after creating your account. Please try again."

	minPasswordLength = 8
)

// accountForm is a submitted login or signup form.
type accountForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

func parseAccountForm(r *http.Request) (accountForm, error) {
	if err := r.ParseForm(); err != nil {
		return accountForm{}, err
	}
	return accountForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}, nil
}

// signupProblem returns the message shown for an unacceptable signup, or "".
func (f accountForm) signupProblem() string {
	switch {
	case f.Email == "" || !strings.Contains(f.Email, "@"):
		return msgInvalidEmail
	case len(f.Password) < minPasswordLength:
		return msgPasswordTooShort
	case f.Password != f.Confirm:
		return msgPasswordMismatch
	}
	return ""
}

// accountPage renders an auth page as a full document or, for htmx swaps,
// as the bare form.
type accountPage func(message string, form accountForm, partial bool) templ.Component

func loginPage(message string, form accountForm, partial bool) templ.Component {
	if partial {
		return pages.LoginPartial(message, form.Email)
	}
	return pages.Login(message, form.Email)
}

func signupPage(message string, form accountForm, partial bool) templ.Component {
	if partial {
		return pages.SignupPartial(message, form.Name, form.Email)
	}
	return pages.Signup(message, form.Name, form.Email)
}

func (p accountPage) render(w http.ResponseWriter, r *http.Request, message string, form accountForm) {
	renderComponent(w, r, http.StatusOK, p(message, form, isHTMX(r)))
}

// serveAccount runs the shared GET and POST flow of the auth pages. submit
// returns a message to re-render the form with, or "" once the session is
// established.
func serveAccount(w http.ResponseWriter, r *http.Request, page accountPage, flash func(r *http.Request) string, submit func(r *http.Request, form accountForm) string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	applog.Debug(r.Context(), "handling account request", "path", r.URL.Path, "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		page.render(w, r, flash(r), accountForm{})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "account dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		form, err := parseAccountForm(r)
		if err != nil {
			applog.Debug(r.Context(), "failed to parse account form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if message := submit(r, form); message != "" {
			page.render(w, r, message, form)
			return
		}
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Login renders the sign-in view and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	serveAccount(w, r, loginPage, popLoginMessage, submitLogin)
}

// Signup renders the registration view and creates new accounts. New users
// start on the site's default template.
func Signup(w http.ResponseWriter, r *http.Request) {
	serveAccount(w, r, signupPage, func(*http.Request) string { return "" }, submitSignup)
}

func popLoginMessage(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	return sessionManager.PopString(r.Context(), sessionLoginMessageKey)
}

func submitLogin(r *http.Request, form accountForm) string {
	if form.Email == "" || form.Password == "" {
		return msgCredentialsRequired
	}
	if !authenticate(r, form.Email, form.Password) {
		applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(form.Email))
		if message := popLoginMessage(r); message != "" {
			return message
		}
		return msgSignInFailed
	}
	return ""
}

func submitSignup(r *http.Request, form accountForm) string {
	if problem := form.signupProblem(); problem != "" {
		applog.Debug(r.Context(), "signup rejected", "reason", problem)
		return problem
	}

	if _, err := findUserByEmail(r, form.Email); err == nil {
		return msgEmailTaken
	} else if !isNotFound(err) {
		applog.Error(r.Context(), "failed to check existing user", "error", err)
		return msgSignupUnavailable
	}

	user, err := createUser(r, form.Email, form.Name, form.Password)
	if err != nil {
		applog.Error(r.Context(), "failed to create user", "error", err)
		return msgSignupUnavailable
	}
	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		return msgSignupNoSession
	}
	applog.Info(r.Context(), "account created", "userID", user.ID, "template", user.DefaultTemplate)
	return ""
}
