package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// UploadedFile describes the remote location of a stored file.
type UploadedFile struct {
	ID       string
	ViewLink string
}

// Connector wraps the Google Drive OAuth flow and file APIs acting on a
// user's stored grant.
type Connector struct {
	oauth *oauth2.Config
}

// NewConnector reads the OAuth client secret file and prepares the flow
// for the drive.file scope.
func NewConnector(credentialsFile, redirectURL string) (*Connector, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(raw, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}
	cfg.RedirectURL = redirectURL
	return &Connector{oauth: cfg}, nil
}

// AuthURL builds the provider consent URL carrying the signed state token.
func (c *Connector) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a grant serialized as JSON,
// suitable for storage on the user record.
func (c *Connector) Exchange(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("serialize drive grant: %w", err)
	}
	return string(raw), nil
}

// EnsureFolder creates a Drive folder and returns its id.
func (c *Connector) EnsureFolder(ctx context.Context, grant, name string) (string, error) {
	svc, err := c.service(ctx, grant)
	if err != nil {
		return "", err
	}
	folder, err := svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMIMEType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create drive folder: %w", err)
	}
	return folder.Id, nil
}

// Upload streams a file into the given folder and returns its id and
// shareable link.
func (c *Connector) Upload(ctx context.Context, grant, folderID, name, mimeType string, content io.Reader) (*UploadedFile, error) {
	svc, err := c.service(ctx, grant)
	if err != nil {
		return nil, err
	}
	meta := &drive.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	file, err := svc.Files.Create(meta).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload drive file: %w", err)
	}
	return &UploadedFile{ID: file.Id, ViewLink: file.WebViewLink}, nil
}

func (c *Connector) service(ctx context.Context, grant string) (*drive.Service, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(grant), &token); err != nil {
		return nil, fmt.Errorf("parse drive grant: %w", err)
	}
	client := c.oauth.Client(ctx, &token)
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
