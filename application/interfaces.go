package application

// UnknownUserLabel is the placeholder shown when an account identifier
// cannot be resolved to a user
const UnknownUserLabel = "Unknown User"

// UserResolver resolves account identifiers to display names. Implemented
// by the bot layer; lookups that fail resolve to UnknownUserLabel.
type UserResolver interface {
	DisplayName(account string) string
}
