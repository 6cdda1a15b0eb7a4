package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type UploadTicketRequest struct {
	Size        int64
	Name        string
	Description string
	FolderID    string
}

type UploadTicket struct {
	UploadLink string `json:"uploadLink"`
	VideoURI   string `json:"videoUri"`
	VideoID    string `json:"videoId"`
}

type VideoDetails struct {
	PlayerEmbedURL string  `json:"player_embed_url"`
	Duration       float64 `json:"duration"`
	Status         string  `json:"status"`
	Pictures       struct {
		Sizes []struct {
			Width int    `json:"width"`
			Link  string `json:"link"`
		} `json:"sizes"`
	} `json:"pictures"`
	Embed struct {
		HTML string `json:"html"`
	} `json:"embed"`
}

// ThumbnailURL prefers the fourth rendition and falls back to the last one
func (v *VideoDetails) ThumbnailURL() string {
	sizes := v.Pictures.Sizes
	if len(sizes) > 3 {
		return sizes[3].Link
	}
	if len(sizes) > 0 {
		return sizes[len(sizes)-1].Link
	}
	return ""
}

type vimeoError struct {
	Error string `json:"error"`
}

type Vimeo struct {
	client *resty.Client
}

func NewVimeo(baseURL, accessToken string, timeout time.Duration) *Vimeo {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/vnd.vimeo.*+json;version=3.4").
		SetTimeout(timeout)
	return &Vimeo{client: client}
}

func lastSegment(uri string) string {
	parts := strings.Split(strings.TrimRight(uri, "/"), "/")
	return parts[len(parts)-1]
}

func vimeoFailure(resp *resty.Response, failure *vimeoError) error {
	if failure.Error != "" {
		return errors.New(failure.Error)
	}
	return fmt.Errorf("vimeo returned status %d", resp.StatusCode())
}

// CreateFolder creates a project folder and returns its id
func (v *Vimeo) CreateFolder(ctx context.Context, name string) (string, error) {
	var out struct {
		URI string `json:"uri"`
	}
	var failure vimeoError
	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		SetError(&failure).
		Post("/me/folders")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", vimeoFailure(resp, &failure)
	}
	return lastSegment(out.URI), nil
}

// CreateUploadTicket reserves a tus upload slot for a new video
func (v *Vimeo) CreateUploadTicket(ctx context.Context, req UploadTicketRequest) (*UploadTicket, error) {
	body := map[string]any{
		"upload": map[string]any{"approach": "tus", "size": req.Size},
		"name":   req.Name,
		"privacy": map[string]string{
			"view":  "anybody",
			"embed": "public",
		},
	}
	if req.Description != "" {
		body["description"] = req.Description
	}
	if req.FolderID != "" {
		body["folder_uri"] = "/folders/" + req.FolderID
	}

	var out struct {
		URI    string `json:"uri"`
		Upload struct {
			UploadLink string `json:"upload_link"`
		} `json:"upload"`
	}
	var failure vimeoError
	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&failure).
		Post("/me/videos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, vimeoFailure(resp, &failure)
	}
	return &UploadTicket{
		UploadLink: out.Upload.UploadLink,
		VideoURI:   out.URI,
		VideoID:    lastSegment(out.URI),
	}, nil
}

func (v *Vimeo) GetVideo(ctx context.Context, videoID string) (*VideoDetails, error) {
	var out VideoDetails
	var failure vimeoError
	resp, err := v.client.R().
		SetContext(ctx).
		SetPathParam("id", videoID).
		SetResult(&out).
		SetError(&failure).
		Get("/videos/{id}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, vimeoFailure(resp, &failure)
	}
	return &out, nil
}

// UpdatePrivacy keeps the video embeddable and hides the player chrome.
// Basic accounts only allow public embeds, so previews and paid lessons share one setting.
func (v *Vimeo) UpdatePrivacy(ctx context.Context, videoID string) error {
	body := map[string]any{
		"privacy": map[string]string{"view": "anybody", "embed": "public"},
		"embed": map[string]any{
			"buttons": map[string]bool{"share": false, "like": false, "watchlater": false},
			"logos":   map[string]bool{"vimeo": false},
			"title":   map[string]any{"name": "hide"},
		},
	}
	var failure vimeoError
	resp, err := v.client.R().
		SetContext(ctx).
		SetPathParam("id", videoID).
		SetBody(body).
		SetError(&failure).
		Patch("/videos/{id}")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return vimeoFailure(resp, &failure)
	}
	return nil
}
