package mailer

import (
	"maps"
	"slices"
)

// Template identifiers of the transactional catalog.
const (
	TemplateWelcomeVerify  = "welcome_verify"
	TemplatePaymentReceipt = "payment_receipt"
	TemplateAccessUpgraded = "access_upgraded"
	TemplateAccessExpired  = "access_expired"
	TemplatePasswordReset  = "password_reset"
)

// Template is a static message with {{key}} or {{key|fallback}} placeholders
// in Subject and Body. Body is plain text; the HTML part is derived from it.
type Template struct {
	ID          string
	Title       string
	Subject     string
	PreviewText string
	Body        string
}

var catalog = map[string]Template{
	TemplateWelcomeVerify: {
		ID:          TemplateWelcomeVerify,
		Title:       "Welcome + Verify Email",
		Subject:     "Welcome to YieldCanary – confirm your email",
		PreviewText: "Confirm your email to unlock every high-yield ETF insight.",
		Body: "Hi {{first_name|there}},\n" +
			"You're one click away from seeing every high-yield ETFs with no illusions.\n" +
			"Confirm your email address here:\n" +
			"{{verification_link}}\n" +
			"Once confirmed, the full dashboard (including Canary Health colors) will unlock instantly.\n" +
			"Talk soon,\n" +
			"Ryan Fish\n" +
			"Founder, YieldCanary",
	},
	TemplatePaymentReceipt: {
		ID:          TemplatePaymentReceipt,
		Title:       "Payment Receipt / Unlock notice",
		Subject:     "You’re in! YieldCanary Pro is now unlocked!",
		PreviewText: "Death Clock, True Income Yield, and Take-Home Cash Return are now visible.",
		Body: "Hey {{first_name}},\n" +
			"Welcome to the real numbers. The blur is gone and you now see:\n" +
			"• Death Clock on every ETF\n" +
			"• True Income Yield after ROC\n" +
			"• Take-Home Cash Return after taxes\n" +
			"\n" +
			"Your dashboard → {{dashboard_url|https://app.yieldcanary.com}}\n" +
			"Let’s go find some dead canaries,\n" +
			"-YieldCanary HQ",
	},
	TemplateAccessUpgraded: {
		ID:          TemplateAccessUpgraded,
		Title:       "Blur Removed / Access Upgraded",
		Subject:     "Your YieldCanary Pro access just went live!",
		PreviewText: "Full ETF metrics, including Take-Home Cash Return, are now visible.",
		Body: "{{first_name}},\n" +
			"Boom! The blur is gone.\n" +
			"You now have full access to every metric on our list of income ETFs, including the Take-Home Cash Return column.\n" +
			"Open the dashboard → {{dashboard_url|https://app.yieldcanary.com}}\n" +
			"Enjoy the truth,\n" +
			"-YieldCanary HQ",
	},
	TemplateAccessExpired: {
		ID:          TemplateAccessExpired,
		Title:       "Access Expired / Churn notice",
		Subject:     "Your YieldCanary Pro access has expired",
		PreviewText: "Blurred data is back, but your watchlist is saved if you return.",
		Body: "Hey {{first_name}},\n" +
			"Your Pro access expired today, so the blur is back on.\n" +
			"Want it back? Reactivate anytime here (your watchlist is still saved):\n" +
			"{{pricing_url|https://app.yieldcanary.com/pricing}}\n" +
			"No pressure. We’ll keep your data safe.\n" +
			"-YieldCanary HQ",
	},
	TemplatePasswordReset: {
		ID:          TemplatePasswordReset,
		Title:       "Password Reset",
		Subject:     "Reset your YieldCanary password",
		PreviewText: "Use the secure link below to set a new password.",
		Body: "Hey {{first_name}},\n" +
			"Someone (hopefully you) requested a password reset.\n" +
			"Click here to set a new password:\n" +
			"{{reset_link}}\n" +
			"If you didn’t ask for this, just ignore this email.\n" +
			"\n" +
			"-YieldCanary HQ",
	},
}

// Lookup returns the template registered under id.
func Lookup(id string) (Template, bool) {
	t, ok := catalog[id]
	return t, ok
}

// TemplateIDs lists the catalog identifiers in sorted order.
func TemplateIDs() []string {
	return slices.Sorted(maps.Keys(catalog))
}
