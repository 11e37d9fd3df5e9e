package sentry

// PlatformLaravel is Sentry's platform tag for PHP/Laravel applications.
// Project resolution only ever considers projects carrying this tag.
const PlatformLaravel = "php-laravel"

// Organization is one entry of the authenticated account's organization list
type Organization struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Team belongs to an organization and is only needed as a path parameter
// when creating a project
type Team struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Project is a Sentry project scoped to an organization
type Project struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

// DSN holds the addresses a client key exposes. Only the public DSN is
// consumed by the monitored application.
type DSN struct {
	Public string `json:"public"`
}

// ClientKey is a named credential scoped to a project
type ClientKey struct {
	Name string `json:"name"`
	DSN  DSN    `json:"dsn"`
}
