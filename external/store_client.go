package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/entity"
	"github.com/truthlens/proof-hub/types"
)

var ErrStoreNotConfigured = errors.New("content store not configured")

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// StoreClient uploads captures to a content-addressed pinning service. Its
// failures are always absorbed by the pipeline, so every error path here must
// stay distinguishable in logs from a successful upload.
type StoreClient struct {
	hc  *http.Client
	cfg *config.StoreConfig
}

func NewStoreClient(cfg *config.StoreConfig) *StoreClient {
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSeconds()) * time.Second,
		Transport: transport,
	}
	return &StoreClient{hc: client, cfg: cfg}
}

// Store uploads the canonical image bytes and returns the content id and a
// gateway retrieval URL.
func (c *StoreClient) Store(ctx context.Context, data []byte) (*entity.ContentLocator, error) {
	if !c.cfg.Configured() {
		return nil, ErrStoreNotConfigured
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	filePart, err := writer.CreateFormFile("file", types.GetImageObjectName(time.Now().UnixMilli()))
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(filePart, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	metadata, _ := json.Marshal(map[string]interface{}{
		"name": types.GetImageObjectName(time.Now().UnixMilli()),
		"keyvalues": map[string]string{
			"app": "truthlens",
		},
	})
	if err = writer.WriteField("pinataMetadata", string(metadata)); err != nil {
		return nil, err
	}
	if err = writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.JWT)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response status: %s, err %s", resp.Status, string(respBody))
	}

	pin := pinResponse{}
	if err = json.Unmarshal(respBody, &pin); err != nil {
		return nil, err
	}
	if pin.IpfsHash == "" {
		return nil, fmt.Errorf("pinning service returned empty content id")
	}
	return &entity.ContentLocator{
		CID: pin.IpfsHash,
		URL: c.ObjectURL(pin.IpfsHash),
	}, nil
}

// ObjectURL rebuilds a retrieval URL from a content id alone.
func (c *StoreClient) ObjectURL(cid string) string {
	return c.cfg.GatewayURL + cid
}
