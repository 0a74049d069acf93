package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/beij-labs/beijshop/core"
)

// registerRequest is the JSON body for user registration.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the JSON body for user login.
type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
	RememberMe      bool   `json:"remember_me"`
}

// Register creates a new user account.
// POST /users/register
func (c *Client) Register(ctx context.Context, username, email, password string) (core.User, error) {
	var user core.User
	err := c.do(ctx, request{
		operation: "register",
		method:    http.MethodPost,
		path:      "/users/register",
		body:      registerRequest{Username: username, Email: email, Password: password},
		fallback:  "Registration failed",
	}, &user)
	return user, err
}

// Login authenticates a user by username or email.
// POST /users/login
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string, rememberMe bool) (core.LoginResponse, error) {
	var resp core.LoginResponse
	err := c.do(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      "/users/login",
		body:      loginRequest{UsernameOrEmail: usernameOrEmail, Password: password, RememberMe: rememberMe},
		fallback:  "Login failed",
	}, &resp)
	return resp, err
}

// RegisterAdmin creates a new admin account gated by the admin secret.
// POST /users/admin/register?admin_secret=XXX
func (c *Client) RegisterAdmin(ctx context.Context, username, email, password, adminSecret string) (core.User, error) {
	var user core.User
	err := c.do(ctx, request{
		operation: "register_admin",
		method:    http.MethodPost,
		path:      "/users/admin/register",
		query:     url.Values{"admin_secret": []string{adminSecret}},
		body:      registerRequest{Username: username, Email: email, Password: password},
		fallback:  "Admin registration failed",
	}, &user)
	return user, err
}

// LoginAdmin authenticates an admin user.
// POST /users/admin/login
func (c *Client) LoginAdmin(ctx context.Context, usernameOrEmail, password string, rememberMe bool) (core.LoginResponse, error) {
	var resp core.LoginResponse
	err := c.do(ctx, request{
		operation: "login_admin",
		method:    http.MethodPost,
		path:      "/users/admin/login",
		body:      loginRequest{UsernameOrEmail: usernameOrEmail, Password: password, RememberMe: rememberMe},
		fallback:  "Admin login failed",
	}, &resp)
	return resp, err
}

// Logout invalidates the token on the server.
// POST /users/logout
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, request{
		operation: "logout",
		method:    http.MethodPost,
		path:      "/users/logout",
		bearer:    token,
		fallback:  "Logout failed",
	}, nil)
}

// GetUserProfile fetches a user's public profile.
// GET /users/{user_id}
func (c *Client) GetUserProfile(ctx context.Context, userID string) (core.User, error) {
	var user core.User
	err := c.do(ctx, request{
		operation: "get_profile",
		method:    http.MethodGet,
		path:      "/users/" + url.PathEscape(userID),
		fallback:  "Failed to get profile",
	}, &user)
	return user, err
}

// UpdateUserProfile applies a partial profile update and returns the
// resulting user record.
// PUT /users/{user_id}
func (c *Client) UpdateUserProfile(ctx context.Context, userID string, updates core.ProfileUpdate) (core.User, error) {
	var user core.User
	err := c.do(ctx, request{
		operation: "update_profile",
		method:    http.MethodPut,
		path:      "/users/" + url.PathEscape(userID),
		body:      updates,
		fallback:  "Failed to update profile",
	}, &user)
	return user, err
}

// GetAllUsers lists every account. Admin only.
// GET /users/
func (c *Client) GetAllUsers(ctx context.Context, token string) ([]core.User, error) {
	var users []core.User
	err := c.do(ctx, request{
		operation: "get_all_users",
		method:    http.MethodGet,
		path:      "/users/",
		bearer:    token,
		fallback:  "Failed to get users",
	}, &users)
	return users, err
}
