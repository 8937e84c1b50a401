package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/enkv/draftpad/models"
	"github.com/enkv/draftpad/worker"
)

// Session is the authenticated principal carried by the session token: the
// user's email plus the delegated access token the Drive export needs.
type Session struct {
	Email       string
	Name        string
	AccessToken string
}

type googleUser struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Sub     string `json:"sub"`
}

var oauthAPIs = map[string]string{
	"google": "https://openidconnect.googleapis.com/v1/userinfo",
}

var oauthConfigsTemplate = map[string]*oauth2.Config{
	"google": {
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		// drive.file grants access to files this app creates, nothing else
		Scopes: []string{"openid", "email", "profile", "https://www.googleapis.com/auth/drive.file"},
	},
}

func addOauthEndpointsAndScopes(oauthConfigs map[string]*oauth2.Config) (map[string]*oauth2.Config, error) {
	for provider := range oauthConfigs {
		template, ok := oauthConfigsTemplate[provider]
		if !ok {
			return nil, fmt.Errorf("unsupported provider: %s", provider)
		}
		oauthConfigs[provider].Endpoint = template.Endpoint
		oauthConfigs[provider].Scopes = template.Scopes
	}

	return oauthConfigs, nil
}

// HandleOauth exchanges the authorization code and fetches the provider's
// profile. The access token is returned alongside the profile because it is
// carried into the session for later Drive calls.
func (s *Service) HandleOauth(ctx context.Context, provider string, code string) (models.User, string, error) {
	conf, ok := s.OAuthConfigs[provider]
	if !ok {
		return models.User{}, "", fmt.Errorf("unsupported provider: %s", provider)
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, "", err
	}

	client := conf.Client(ctx, tok)
	apiURL, ok := oauthAPIs[provider]
	if !ok {
		return models.User{}, "", fmt.Errorf("unsupported provider: %s", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, "", err
	}

	user, err := parseUser(body, provider)
	if err != nil {
		return models.User{}, "", err
	}

	return user, tok.AccessToken, nil
}

func parseUser(jsonData []byte, provider string) (models.User, error) {
	switch provider {
	case "google":
		var g googleUser
		if err := json.Unmarshal(jsonData, &g); err != nil {
			return models.User{}, err
		}
		if g.Email == "" {
			return models.User{}, errors.New("userinfo response missing email")
		}
		return models.User{Name: g.Name, Email: g.Email, Image: g.Picture}, nil
	default:
		return models.User{}, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (s *Service) CreateJWT(email string, name string, accessToken string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"name":  name,
		"act":   accessToken,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (s *Service) VerifyJWT(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, err
	}

	if !token.Valid {
		return Session{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Session{}, errors.New("missing email claim")
	}

	name, _ := claims["name"].(string)
	accessToken, _ := claims["act"].(string)

	return Session{Email: email, Name: name, AccessToken: accessToken}, nil
}

// AuthenticateToken resolves the session purely from the token: whether the
// user record still exists is the draft operations' concern, and they report
// it as not-found rather than unauthorized.
func (s *Service) AuthenticateToken(token string) (Session, error) {
	if len(token) == 0 {
		return Session{}, errors.New("token not provided")
	}

	return s.VerifyJWT(token)
}

// Login signs the user in: code exchange, profile fetch, then the lazy user
// sync the drafts model relies on (create on first sign-in, refresh the
// profile image on later ones).
func (s *Service) Login(ctx context.Context, provider string, code string) (models.User, string, error) {
	user, accessToken, err := s.HandleOauth(ctx, provider, code)
	if err != nil {
		return models.User{}, "", fmt.Errorf("oauth failed: %w", err)
	}

	stored, created, err := s.Store.EnsureUser(ctx, user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("user sync failed: %w", err)
	}

	if !created && stored.Image != user.Image {
		stored, err = s.Store.SyncUser(ctx, stored.Email, stored.Name, user.Image)
		if err != nil {
			return models.User{}, "", fmt.Errorf("user sync failed: %w", err)
		}
	}

	token, err := s.CreateJWT(stored.Email, stored.Name, accessToken)
	if err != nil {
		return models.User{}, "", fmt.Errorf("token generation failed: %w", err)
	}

	return stored, token, nil
}

// GetProfile returns the signed-in user's stored record.
func (s *Service) GetProfile(ctx context.Context, sess Session) (models.User, error) {
	return s.Store.GetUser(ctx, sess.Email)
}

// DeleteAccount removes the user record (embedded drafts go with it) and
// hands the remaining cleanup to the queue so the request can return as soon
// as the store write is done.
func (s *Service) DeleteAccount(ctx context.Context, sess Session) error {
	if err := s.Store.DeleteUser(ctx, sess.Email); err != nil {
		return err
	}

	go func() {
		msg := worker.AccountCleanupMessage{Email: sess.Email}
		if msgBytes, err := json.Marshal(msg); err == nil {
			if err := s.MQ.Send(context.Background(), string(msgBytes)); err != nil {
				log.Printf("Failed to enqueue account cleanup for %s: %v", sess.Email, err)
			}
		}
	}()

	return nil
}
