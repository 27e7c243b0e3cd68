package handlers

import (
	"context"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/render"
	"storefront/internal/session"
)

const (
	totpIssuer    = "Storefront"
	dashboardPath = "/dashboard"
	verifyPath    = "/dashboard/2fa/verify"
)

// Accounts is the user persistence the dashboard login needs.
type Accounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID, secret string) error
	EnableTOTP(ctx context.Context, userID string) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	accounts Accounts
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, accounts Accounts) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		accounts: accounts,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in with 2FA complete.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{Title: "Sign In"})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := formText(r, "email")
	password := r.FormValue("password")

	user, err := a.accounts.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.loginError(w, r, email, "An unexpected error occurred.")
		return
	}

	if user == nil || !a.accounts.CheckPassword(user, password) {
		a.loginError(w, r, email, "Invalid email or password.")
		return
	}

	// Provider-synced buyers have no dashboard.
	if user.Role != models.RoleAdmin && user.Role != models.RoleSeller {
		a.loginError(w, r, email, "This account has no dashboard access.")
		return
	}

	// TwoFADone starts false; the user must pass the TOTP step.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
		Role:        user.Role,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.Needs2FASetup() {
		http.Redirect(w, r, middleware.TwoFASetPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, verifyPath, http.StatusSeeOther)
}

func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, email, msg string) {
	a.renderer.PageStatus(w, r, http.StatusUnauthorized, "login", &render.PageData{
		Title:   "Sign In",
		Data:    map[string]any{"Email": email},
		Flashes: []render.Flash{{Type: "error", Message: msg}},
	})
}

// TwoFASetupPage generates a TOTP secret and displays it as a QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}

	// Enrolled users verify instead of replacing their secret.
	user, err := a.accounts.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPEnabled {
		http.Redirect(w, r, verifyPath, http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.accounts.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderSetup(w, r, http.StatusOK, key, nil)
}

// renderSetup shows the enrollment page for key.
func (a *Auth) renderSetup(w http.ResponseWriter, r *http.Request, status int, key *otp.Key, flashes []render.Flash) {
	qr, err := qrDataURL(key.URL())
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.PageStatus(w, r, status, "2fa_setup", &render.PageData{
		Title:   "Two-Factor Setup",
		Data:    map[string]any{"QRCode": qr, "Secret": key.Secret()},
		Flashes: flashes,
	})
}

// qrDataURL encodes a PNG QR code of content as a data URL.
func qrDataURL(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// TwoFAVerifyPage renders the code entry form for enrolled users.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-Factor Verification"})
}

// TwoFASubmit validates the TOTP code for both enrollment and verification
// and completes authentication.
func (a *Auth) TwoFASubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}

	user, err := a.accounts.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, middleware.TwoFASetPath, http.StatusSeeOther)
		return
	}

	if !totp.Validate(formText(r, "code"), *user.TOTPSecret) {
		flashes := []render.Flash{{Type: "error", Message: "Invalid code. Please try again."}}
		if user.TOTPEnabled {
			a.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "2fa_verify", &render.PageData{
				Title:   "Two-Factor Verification",
				Flashes: flashes,
			})
			return
		}

		key, err := otp.NewKeyFromURL(totpKeyURL(user.Email, *user.TOTPSecret))
		if err != nil {
			slog.Error("rebuild totp key failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		a.renderSetup(w, r, http.StatusUnprocessableEntity, key, flashes)
		return
	}

	if !user.TOTPEnabled {
		if err := a.accounts.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// totpKeyURL rebuilds the otpauth URL of an existing secret.
func totpKeyURL(email, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", totpIssuer)
	return "otpauth://totp/" + url.PathEscape(totpIssuer+":"+email) + "?" + v.Encode()
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
