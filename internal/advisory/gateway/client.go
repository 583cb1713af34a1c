package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

const (
	defaultTimeout   = 120 * time.Second
	maxErrorBodySize = 64 * 1024
)

// operation describes one remote capability.
type operation struct {
	name     string
	path     string
	fallback string
}

var (
	opScanImage = operation{
		name:     "scan_image",
		path:     "/predict_disease",
		fallback: "Scan failed. Server se connection nahi ho paa raha hai. (Kya backend server chal raha hai?)",
	}
	opRecommendCrop = operation{
		name:     "recommend_crop",
		path:     "/recommend_crop",
		fallback: "Recommendation failed. Check connection or inputs.",
	}
	opRecommendFertilizer = operation{
		name:     "recommend_fertilizer",
		path:     "/recommend_fertilizer",
		fallback: "Recommendation failed. Could not connect to the server.",
	}
	opGetWeather = operation{
		name:     "get_weather",
		path:     "/get_weather",
		fallback: "Failed to fetch weather data.",
	}
	opSendChatMessage = operation{
		name:     "send_chat_message",
		path:     "/sarthi_ai_chat",
		fallback: model.ChatFailureText,
	}
)

// Client talks to the advisory HTTP services. It is safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a client from configuration.
func New(cfg model.GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewWithClient(cfg.BaseURL, &http.Client{Timeout: timeout})
}

func NewWithClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ScanImage uploads an image as the multipart field "file".
func (c *Client) ScanImage(ctx context.Context, img model.ImageUpload) (model.ScanDiagnosis, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "upload"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return model.ScanDiagnosis{}, errx.New(err, 0, opScanImage.fallback)
	}
	if _, err := part.Write(img.Data); err != nil {
		return model.ScanDiagnosis{}, errx.New(err, 0, opScanImage.fallback)
	}
	if err := mw.Close(); err != nil {
		return model.ScanDiagnosis{}, errx.New(err, 0, opScanImage.fallback)
	}

	var resp scanResponse
	if err := c.post(ctx, opScanImage, mw.FormDataContentType(), &buf, &resp); err != nil {
		return model.ScanDiagnosis{}, err
	}
	return resp.decode(opScanImage)
}

func (c *Client) RecommendCrop(ctx context.Context, req model.CropRequest) (model.CropRecommendation, error) {
	var resp cropResponse
	if err := c.postJSON(ctx, opRecommendCrop, req, &resp); err != nil {
		return model.CropRecommendation{}, err
	}
	return resp.decode(opRecommendCrop)
}

func (c *Client) RecommendFertilizer(ctx context.Context, req model.FertilizerRequest) (model.FertilizerRecommendation, error) {
	var resp fertilizerResponse
	if err := c.postJSON(ctx, opRecommendFertilizer, req, &resp); err != nil {
		return model.FertilizerRecommendation{}, err
	}
	return resp.decode(opRecommendFertilizer)
}

func (c *Client) GetWeather(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
	var body any
	switch sel.Kind {
	case model.SelectByName:
		body = map[string]any{"city": sel.City}
	case model.SelectByCoordinates:
		body = map[string]any{"lat": sel.Lat, "lon": sel.Lon}
	default:
		return model.WeatherSnapshot{}, errx.Validation("Invalid input for fetching weather.")
	}

	var resp weatherResponse
	if err := c.postJSON(ctx, opGetWeather, body, &resp); err != nil {
		return model.WeatherSnapshot{}, err
	}
	snap, err := resp.decode(opGetWeather)
	if err != nil {
		return model.WeatherSnapshot{}, err
	}
	snap.Selector = sel
	return snap, nil
}

// SendChatMessage posts one message. model.WithFallback swaps the failure
// text used when the service supplies no error of its own.
func (c *Client) SendChatMessage(ctx context.Context, text string, history []model.HistoryEntry, opts ...model.ChatOption) (model.ChatReply, error) {
	op := opSendChatMessage
	if o := model.ApplyChatOptions(opts...); o.Fallback != "" {
		op.fallback = o.Fallback
	}

	body := chatRequest{Message: text, History: history}
	var resp chatResponse
	if err := c.postJSON(ctx, op, body, &resp); err != nil {
		return model.ChatReply{}, err
	}
	return resp.decode(op)
}

func (c *Client) postJSON(ctx context.Context, op operation, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return errx.New(fmt.Errorf("%s: encode request: %w", op.name, err), 0, op.fallback)
	}
	return c.post(ctx, op, "application/json", &buf, out)
}

func (c *Client) post(ctx context.Context, op operation, contentType string, body io.Reader, out any) error {
	url := c.baseURL + op.path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return errx.New(fmt.Errorf("%s: build request: %w", op.name, err), 0, op.fallback)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("op", op.name).Str("url", url).Msg("request did not complete")
		return errx.Network(fmt.Errorf("%s: %w", op.name, err), op.fallback)
	}
	defer resp.Body.Close()

	logx.Debug().
		Str("op", op.name).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request settled")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeFailure(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logx.Error().Err(err).Str("op", op.name).Msg("failed to decode response body")
		return errx.Server(fmt.Errorf("%s: decode response: %w", op.name, err), resp.StatusCode, op.fallback)
	}
	return nil
}

// decodeFailure surfaces the service's "error" field when present, the
// operation fallback otherwise.
func (c *Client) decodeFailure(op operation, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	message := op.fallback
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		message = body.Error
	}
	logx.Warn().
		Str("op", op.name).
		Int("status", resp.StatusCode).
		Str("error", message).
		Msg("service returned failure")
	return errx.Server(fmt.Errorf("%s: http %d", op.name, resp.StatusCode), resp.StatusCode, message)
}

// errSchema is wrapped into a server error when a 2xx body is unusable.
var errSchema = errors.New("response does not match schema")

func schemaError(op operation, field string) error {
	return errx.Server(fmt.Errorf("%s: %w: missing %s", op.name, errSchema, field), http.StatusOK, op.fallback)
}

var _ model.Gateway = (*Client)(nil)
