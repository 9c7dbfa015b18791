// Command agent runs one voice questionnaire session: it provisions the
// session artifacts, wires the Deepgram speech clients and the local audio
// devices to the dialogue orchestrator, and serves the session event feed
// over a websocket.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	orchestration "github.com/radpretation/surveyvoice-core/core"
	"github.com/radpretation/surveyvoice-core/core/audio/miniaudio"
	"github.com/radpretation/surveyvoice-core/core/backend"
	"github.com/radpretation/surveyvoice-core/core/broadcast"
	"github.com/radpretation/surveyvoice-core/core/provisioning"
	"github.com/radpretation/surveyvoice-core/core/questionnaire"
	"github.com/radpretation/surveyvoice-core/core/speechtotext"
	deepgramstt "github.com/radpretation/surveyvoice-core/core/speechtotext/deepgram"
	"github.com/radpretation/surveyvoice-core/core/texttospeech"
	deepgramtts "github.com/radpretation/surveyvoice-core/core/texttospeech/deepgram"
)

func main() {
	sessionID := flag.String("session", "session", "session id, names the artifact directory")
	storeRoot := flag.String("store", "sessions", "root directory of session artifact storage")
	listenAddr := flag.String("listen", ":8080", "address of the websocket event feed")
	printSchema := flag.Bool("print-schema", false, "print the questionnaire document schema and exit")
	flag.Parse()

	if *printSchema {
		schema, err := json.MarshalIndent(questionnaire.DocumentSchema(), "", "  ")
		if err != nil {
			log.Fatalf("Failed to render questionnaire schema: %v", err)
		}
		fmt.Println(string(schema))
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator := provisioning.NewCoordinator(provisioning.NewFileStore(*storeRoot), *sessionID)

	store, credentials, err := coordinator.Provision(ctx)
	if err != nil {
		log.Fatalf("Failed to provision session %s: %v", *sessionID, err)
	}

	gateway := backend.NewClient(credentials,
		backend.WithClassifyURL(os.Getenv("QUESTIONNAIRE_CLASSIFY_URL")),
		backend.WithPersistURL(os.Getenv("QUESTIONNAIRE_PERSIST_URL")),
		backend.WithEvaluateURL(os.Getenv("QUESTIONNAIRE_EVALUATE_URL")),
	)

	broadcaster := broadcast.New()
	defer broadcaster.Close()

	feed := &http.Server{Addr: *listenAddr, Handler: eventFeedMux(broadcaster)}
	go func() {
		if err := feed.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Event feed server failed: %v", err)
		}
	}()

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		log.Fatalf("Failed to initialize audio devices: %v", err)
	}
	defer audioClient.Close()

	speech := deepgramtts.NewClient(
		deepgramtts.WithSpeechOptions(
			texttospeech.WithEncodingInfo(audioClient.EncodingInfo()),
			texttospeech.WithAudioCallback(func(chunk []byte) {
				if err := audioClient.SendAudio(chunk); err != nil {
					log.Printf("Failed to play synthesized audio: %v", err)
				}
			}),
		),
		deepgramtts.WithVoice(os.Getenv("DEEPGRAM_VOICE")),
	)

	orchestrator := orchestration.NewOrchestrator(store,
		orchestration.WithSessionID(*sessionID),
		orchestration.WithBackendGateway(gateway),
		orchestration.WithSpeechOutput(speech),
		orchestration.WithBroadcaster(broadcaster),
		orchestration.WithLifecycle(coordinator),
	)

	transcription := deepgramstt.NewTranscriptionClient()
	if err := transcription.Transcribe(ctx,
		speechtotext.WithEncodingInfo(audioClient.EncodingInfo()),
		speechtotext.WithTranscriptionCallback(orchestrator.SubmitTranscript),
	); err != nil {
		log.Fatalf("Failed to start transcription: %v", err)
	}

	if err := audioClient.Stream(ctx, func(chunk []byte) {
		if err := transcription.SendAudio(chunk); err != nil {
			log.Printf("Failed to forward captured audio: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to start audio capture: %v", err)
	}

	orchestrator.Orchestrate(ctx,
		orchestration.WithStateChangedCallback(func(state orchestration.State) {
			if state == orchestration.StateCompleted {
				stop()
			}
		}),
	)

	<-ctx.Done()

	orchestrator.Close()
	if err := transcription.Close(context.Background()); err != nil {
		log.Printf("Failed to close transcription client: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := feed.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down event feed server: %v", err)
	}
}

func eventFeedMux(broadcaster *broadcast.Broadcaster) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws/logs", broadcast.Handler(broadcaster))
	return mux
}
