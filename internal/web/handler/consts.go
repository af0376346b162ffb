package handler

const (
	// BaseLayout is the layout of the signed in pages.
	BaseLayout = "layouts/base"

	// PublicLayout is the layout of the marketing and sign in pages.
	PublicLayout = "layouts/public"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes the JSON endpoints.
	APIPath = RootPath + "api/"

	// LoginPath is the sign in page.
	LoginPath = RootPath + "login"

	// DashboardPath is where a signed in user lands.
	DashboardPath = RootPath + "dashboard"

	// OnboardingPath is the setup wizard.
	OnboardingPath = RootPath + "onboarding"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// MsgUnauthorized is the JSON error of API calls without a session.
	MsgUnauthorized = "unauthorized"
)
