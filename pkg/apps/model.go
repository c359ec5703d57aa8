package apps

// App is a registered embedding application: one secret, one authorized origin.
type App struct {
	ID               string // uuid
	OwnerID          string // uuid of the registering user
	Name             string // display name (acme-support-bot)
	DocID            string // knowledge source document backing the bot
	AuthorizedOrigin string // scheme+host the widget may run on (https://acme.com)
}
