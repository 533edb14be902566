package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// Login exchanges credentials for a session. It does not need a token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var s model.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/login/", body, &s); err != nil {
		return nil, err
	}
	if s.Access == "" {
		return nil, fmt.Errorf("login: response has no access token")
	}
	return &s, nil
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. The caller logs in afterwards.
func (c *Client) Register(ctx context.Context, r RegisterRequest) error {
	return c.postJSON(ctx, "/register/", r, nil)
}

// Profile returns the logged-in user's profile.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.getJSON(ctx, "/profile/", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UserProfile returns another user's public profile.
func (c *Client) UserProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	var p model.Profile
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d/profile/", userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Conversations lists one row per chat partner.
func (c *Client) Conversations(ctx context.Context) ([]model.Conversation, error) {
	var out []model.Conversation
	if err := c.getJSON(ctx, "/messages/conversations/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages returns the full thread with userID, oldest first.
func (c *Client) Messages(ctx context.Context, userID int64) ([]model.Message, error) {
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	var out []model.Message
	if err := c.getJSON(ctx, "/messages/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts content to receiver and returns the stored message.
func (c *Client) SendMessage(ctx context.Context, receiver int64, content string) (*model.Message, error) {
	body := struct {
		Receiver int64  `json:"receiver"`
		Content  string `json:"content"`
	}{receiver, content}
	var m model.Message
	if err := c.postJSON(ctx, "/messages/", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Notifications returns the user's notification feed in server order.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	if err := c.getJSON(ctx, "/notifications/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead sets unread=false on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	body := struct {
		Unread bool `json:"unread"`
	}{false}
	return c.patchJSON(ctx, fmt.Sprintf("/notifications/%d/", id), body, nil)
}

// Contracts lists the contracts the user is party to.
func (c *Client) Contracts(ctx context.Context) ([]model.Contract, error) {
	var out []model.Contract
	if err := c.getJSON(ctx, "/contracts/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Contract(ctx context.Context, id int64) (*model.Contract, error) {
	var out model.Contract
	if err := c.getJSON(ctx, fmt.Sprintf("/contracts/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Proposals(ctx context.Context) ([]model.Proposal, error) {
	var out []model.Proposal
	if err := c.getJSON(ctx, "/proposals/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Proposal(ctx context.Context, id int64) (*model.Proposal, error) {
	var out model.Proposal
	if err := c.getJSON(ctx, fmt.Sprintf("/proposals/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Projects lists posted projects. A non-empty search filters server side.
func (c *Client) Projects(ctx context.Context, search string) ([]model.Project, error) {
	path := "/projects/"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var out []model.Project
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Project(ctx context.Context, id int64) (*model.Project, error) {
	var out model.Project
	if err := c.getJSON(ctx, fmt.Sprintf("/projects/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reviews returns the reviews left on a contract.
func (c *Client) Reviews(ctx context.Context, contractID int64) ([]model.Review, error) {
	q := url.Values{"contract": {strconv.FormatInt(contractID, 10)}}
	var out []model.Review
	if err := c.getJSON(ctx, "/reviews/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Portfolio returns the logged-in freelancer's portfolio.
func (c *Client) Portfolio(ctx context.Context) ([]model.PortfolioItem, error) {
	var out []model.PortfolioItem
	if err := c.getJSON(ctx, "/portfolio/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserPortfolio returns another user's public portfolio.
func (c *Client) UserPortfolio(ctx context.Context, userID int64) ([]model.PortfolioItem, error) {
	var out []model.PortfolioItem
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%d/portfolio/", userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
