package config

// App holds everything the process reads from the environment. Loaded once in
// main and injected; nothing reads env vars after startup.
type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	RefreshSecret string `env:"REFRESH_SECRET"`
	AdminSecret   string `env:"ADMIN_SECRET"`
	Env           string `env:"APP_ENV" default:"dev"`

	// Loan policy knobs consumed by the lifecycle engine.
	LoanPeriodDays int     `env:"LOAN_DAYS" default:"14"`
	FinePerDay     float64 `env:"FINE_PER_DAY" default:"5"`

	// RestockOnReject restores the reserved stock unit when an already
	// approved request is rejected. Off by default: rejecting an approved
	// request then leaves the unit unavailable until return, matching the
	// behavior this service replaces.
	RestockOnReject bool `env:"RESTOCK_ON_REJECT" default:"false"`
}
