package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/models"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	sessionWatchersLock sync.Mutex
	sessionWatchers     []func(*feed.Session)
)

// OnSessionChange registers a callback fired whenever a session is created
// or torn down. The callback receives nil on sign-out.
func OnSessionChange(cb func(*feed.Session)) {
	sessionWatchersLock.Lock()
	defer sessionWatchersLock.Unlock()
	sessionWatchers = append(sessionWatchers, cb)
}

func notifySessionChange(sess *feed.Session) {
	sessionWatchersLock.Lock()
	watchers := append(([]func(*feed.Session))(nil), sessionWatchers...)
	sessionWatchersLock.Unlock()

	for _, cb := range watchers {
		cb(sess)
	}
}

// SignUp creates the account plus its initial profile, named after the
// email's local part, and opens a session.
func SignUp(email, password string) (models.Account, string, error) {
	var account models.Account
	var count int64
	if err := database.C.Model(&models.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return account, "", fmt.Errorf("unable to count existing accounts: %v", err)
	}
	if count > 0 {
		return account, "", fmt.Errorf("account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account, "", fmt.Errorf("unable to hash password: %v", err)
	}

	account = models.Account{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hash),
	}
	if err := database.C.Create(&account).Error; err != nil {
		return account, "", err
	}

	if _, err := CreateDefaultProfile(account.ID, account.Email); err != nil {
		log.Error().Err(err).Str("user", account.ID).Msg("An error occurred when creating initial profile...")
	}

	token, err := EncodeSession(account)
	if err != nil {
		return account, "", err
	}

	notifySessionChange(&feed.Session{User: feed.SessionUser{ID: account.ID, Email: account.Email}})
	return account, token, nil
}

func SignIn(email, password string) (models.Account, string, error) {
	var account models.Account
	if err := database.C.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, "", fmt.Errorf("invalid email or password")
		}
		return account, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return account, "", fmt.Errorf("invalid email or password")
	}

	token, err := EncodeSession(account)
	if err != nil {
		return account, "", err
	}

	notifySessionChange(&feed.Session{User: feed.SessionUser{ID: account.ID, Email: account.Email}})
	return account, token, nil
}

// SignOut only tears down the caller's notion of the session; tokens are
// stateless and expire on their own.
func SignOut() {
	notifySessionChange(nil)
}

func EncodeSession(account models.Account) (string, error) {
	lifespan := viper.GetDuration("security.session_lifespan")
	if lifespan <= 0 {
		lifespan = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(lifespan).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(viper.GetString("security.session_secret")))
}

// GetSession decodes a bearer token back into the session the feed store
// consumes. Expired and malformed tokens are both rejected.
func GetSession(token string) (*feed.Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(viper.GetString("security.session_secret")), nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to parse session token: %v", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session claims")
	}

	id, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if len(id) == 0 {
		return nil, fmt.Errorf("session token is missing a subject")
	}

	return &feed.Session{User: feed.SessionUser{ID: id, Email: email}}, nil
}
