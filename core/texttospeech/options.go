// Package texttospeech defines the synthesis contract a session needs from
// a text-to-speech provider.
package texttospeech

import "github.com/radpretation/surveyvoice-core/core/audio"

type TextToSpeechOptions struct {
	// AudioCallback receives synthesized audio chunks in playback order.
	AudioCallback func(audio []byte)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithAudioCallback(callback func(audio []byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.AudioCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.EncodingInfo = encodingInfo
	}
}
