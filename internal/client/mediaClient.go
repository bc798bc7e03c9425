package client

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"application-portal/internal/config"
)

// MediaStore is the opaque upload sink for applicant documents.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, filename, applicationID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
	ExtractPublicID(fileURL string) string
}

type UploadResult struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
}

type cloudinaryClientImpl struct {
	httpClient *http.Client
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	now        func() time.Time
}

const cloudinaryAPIBase = "https://api.cloudinary.com/v1_1"

func NewCloudinaryClient(cfg *config.Cloudinary) MediaStore {
	return &cloudinaryClientImpl{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.Folder,
		now:       time.Now,
	}
}

func (c *cloudinaryClientImpl) Upload(ctx context.Context, data []byte, filename, applicationID string) (*UploadResult, error) {
	publicID := filename
	if applicationID != "" {
		publicID = applicationID + "_" + filename
	}
	publicID = strings.TrimSuffix(publicID, path.Ext(publicID))

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := map[string]string{
		"folder":    c.folder,
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write multipart file: %w", err)
	}
	for k, v := range params {
		writer.WriteField(k, v)
	}
	writer.WriteField("api_key", c.apiKey)
	writer.WriteField("signature", c.signParams(params))
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/auto/upload", cloudinaryAPIBase, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudinary upload failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode cloudinary response: %w", err)
	}

	return &result, nil
}

func (c *cloudinaryClientImpl) Delete(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.signParams(params))

	destroyURL := fmt.Sprintf("%s/%s/image/destroy", cloudinaryAPIBase, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destroyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudinary destroy failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// ExtractPublicID recovers the public id from a delivery URL so a replaced
// upload can delete its predecessor. Returns "" for URLs that are not ours.
func (c *cloudinaryClientImpl) ExtractPublicID(fileURL string) string {
	if !strings.Contains(fileURL, "cloudinary.com") {
		return ""
	}
	idx := strings.Index(fileURL, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := fileURL[idx+len("/upload/"):]
	// drop the version segment (v1234567890/)
	if strings.HasPrefix(rest, "v") {
		if slash := strings.Index(rest, "/"); slash > 0 {
			if _, err := strconv.Atoi(rest[1:slash]); err == nil {
				rest = rest[slash+1:]
			}
		}
	}
	return strings.TrimSuffix(rest, path.Ext(rest))
}

// signParams produces the request signature: SHA-1 over the sorted
// key=value pairs joined with '&', with the API secret appended.
func (c *cloudinaryClientImpl) signParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
