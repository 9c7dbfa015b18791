// Package events defines the typed session event contract.
//
// Events broadcast to observers as single JSON objects:
//
//   - UserUtterance (utterance.user): {"speaker":"user","text":...}
//   - AssistantUtterance (utterance.assistant): {"speaker":"assistant","text":...}
//   - FirstQuestion (question.first): {"type":"first_question","question":{...}}
//   - NextQuestion (question.next): {"type":"next_question","question":{...}}
//   - Completed (session.completed): {"type":"completed","message":...}
//
// Events carrying the [Spoken] interface are additionally voiced through the
// configured speech output; the emitter guarantees the broadcast payload and
// the spoken text never drift apart.
//
// Observers see a total order of events per session. There is no buffering
// or replay: an observer attached after an event was published misses it.
package events
