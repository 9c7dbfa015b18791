// Package deepgram voices session prompts through the Deepgram speak API.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/radpretation/surveyvoice-core/core/audio"
	"github.com/radpretation/surveyvoice-core/core/texttospeech"
)

type deepgramVoice string

const defaultVoice deepgramVoice = "aura-2-thalia-en"

const audioChunkSize = 4096

// Client synthesizes one utterance per Say call and feeds the audio to the
// configured playback callback before returning.
type Client struct {
	voice      deepgramVoice
	options    texttospeech.TextToSpeechOptions
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithVoice(voice string) ClientOption {
	return func(c *Client) {
		if voice != "" {
			c.voice = deepgramVoice(voice)
		}
	}
}

// WithSpeechOptions applies the shared synthesis options: audio callback and
// encoding.
func WithSpeechOptions(opts ...texttospeech.TextToSpeechOption) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(&c.options)
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		voice: defaultVoice,
		options: texttospeech.TextToSpeechOptions{
			AudioCallback: func([]byte) {},
			EncodingInfo:  audio.GetDefaultEncodingInfo(),
		},
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) speakURL() string {
	urlValues := url.Values{}
	urlValues.Set("encoding", c.options.EncodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(c.options.EncodingInfo.SampleRate))
	urlValues.Set("model", string(c.voice))
	urlValues.Set("container", "none")

	return (&url.URL{
		Scheme:   "https",
		Host:     "api.deepgram.com",
		Path:     "/v1/speak",
		RawQuery: urlValues.Encode(),
	}).String()
}

// Say synthesizes the text and streams the resulting audio chunks to the
// playback callback. It returns once all audio has been handed off.
func (c *Client) Say(ctx context.Context, text string) error {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return fmt.Errorf("deepgram api key not found")
	}

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.speakURL(), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("non-OK HTTP status: %s: %s", resp.Status, string(errorBody))
	}

	chunk := make([]byte, audioChunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			c.options.AudioCallback(chunk[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read speak response audio: %w", err)
		}
	}
}
