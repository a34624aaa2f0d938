package bot

import (
	"sync"

	"skullbot/application"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// userResolver resolves names through the Discord API with a small cache
type userResolver struct {
	session *discordgo.Session

	mu    sync.RWMutex
	cache map[string]string
}

// NewUserResolver creates a resolver backed by the given session
func NewUserResolver(session *discordgo.Session) application.UserResolver {
	return &userResolver{
		session: session,
		cache:   make(map[string]string),
	}
}

// DisplayName implements application.UserResolver
func (r *userResolver) DisplayName(account string) string {
	r.mu.RLock()
	name, ok := r.cache[account]
	r.mu.RUnlock()
	if ok {
		return name
	}

	user, err := r.session.User(account)
	if err != nil {
		log.WithError(err).WithField("account", account).Warn("Failed to resolve user")
		return application.UnknownUserLabel
	}

	r.mu.Lock()
	r.cache[account] = user.Username
	r.mu.Unlock()
	return user.Username
}
