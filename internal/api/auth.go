package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// avatarField is the multipart field the backend reads the photo from.
const avatarField = "photo"

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "auth", "login"), creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return AuthResponse{}, fmt.Errorf("decode response: missing token")
	}
	return resp, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "auth", "register"), reg, &resp); err != nil {
		return AuthResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return AuthResponse{}, fmt.Errorf("decode response: missing token")
	}
	return resp, nil
}

// UpdateProfile changes the non-nil fields of in for the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "auth", "profile"), in, &resp); err != nil {
		return ProfileResponse{}, err
	}
	return resp, nil
}

// UploadAvatar sends the image at path as the authenticated user's avatar.
// Files that are not images are rejected with ErrNotImage before any request.
func (c *Client) UploadAvatar(ctx context.Context, path string) (ProfileResponse, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProfileResponse{}, fmt.Errorf("avatar path required")
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("inspect avatar: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return ProfileResponse{}, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("read avatar: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, avatarField, filepath.Base(path)))
	header.Set("Content-Type", mtype.String())
	part, err := form.CreatePart(header)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("encode request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return ProfileResponse{}, fmt.Errorf("encode request: %w", err)
	}
	if err := form.Close(); err != nil {
		return ProfileResponse{}, fmt.Errorf("encode request: %w", err)
	}

	target := c.endpoint(nil, "auth", "profile", "photo")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), &body)
	if err != nil {
		return ProfileResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp ProfileResponse
	if err := c.send(req, &resp); err != nil {
		return ProfileResponse{}, err
	}
	return resp, nil
}
