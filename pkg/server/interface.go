/*
Package server implements msgpack IPC for word completion services.

Clients write msgpack maps to stdin and read one msgpack map per request
from stdout. Requests are handled in order, one at a time, and every
response carries the request id.

# IPC

A completion request needs only an id and a prefix:

	{"id": "req_001", "p": "ame", "l": 24}

The server responds with suggestions ranked by frequency, timed in microseconds:

	{"id": "req_001", "s": [{"w": "amenity", "r": 1}, {"w": "america", "r": 2}], "c": 2, "t": 145}

The action field selects other operations. "f" asks for a corrected
prefix when nothing completes:

	{"id": "m1", "action": "match", "p": "h.llo", "l": 10}
	{"id": "l1", "action": "longest", "p": "helloworld"}
	{"id": "k1", "action": "contains", "p": "hello"}
	{"id": "c1", "p": "helo", "f": true}

Dictionary management adjusts the loaded chunk set at runtime.
request_more queues chunks covering the given number of words in the
background and answers with the dictionary info at the time of queuing:

	{"id": "dict_001", "action": "set_size", "chunk_count": 5}
	{"id": "dict_002", "action": "get_options"}
	{"id": "dict_003", "action": "get_info"}
	{"id": "dict_004", "action": "request_more", "words": 50000}

Failed requests get a CompletionError:

	{"id": "req_002", "e": "prefix too long", "c": 400}

The server counts requests and reloads its config file every
server.reload_every requests.
*/
package server

import "github.com/bastiangx/wordtrie/pkg/queue"

// Actions understood by the server. An empty action completes.
const (
	ActionComplete    = "complete"
	ActionMatch       = "match"
	ActionLongest     = "longest"
	ActionContains    = "contains"
	ActionGetInfo     = "get_info"
	ActionSetSize     = "set_size"
	ActionGetOptions  = "get_options"
	ActionRequestMore = "request_more"
)

// Request is any client message. P holds the prefix, pattern or query
// depending on the action.
type Request struct {
	ID         string `msgpack:"id"`
	Action     string `msgpack:"action,omitempty"`
	Prefix     string `msgpack:"p,omitempty"`
	Limit      int    `msgpack:"l,omitempty"`
	Fuzzy      bool   `msgpack:"f,omitempty"`
	ChunkCount *int   `msgpack:"chunk_count,omitempty"`
	Words      int    `msgpack:"words,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse answers complete and match requests. Suggestions
// travel as a plain msgpack array, best first.
type CompletionResponse struct {
	ID              string                             `msgpack:"id"`
	Suggestions     *queue.Queue[CompletionSuggestion] `msgpack:"s"`
	Count           int                                `msgpack:"c"`
	TimeTaken       int64                              `msgpack:"t"`
	CorrectedPrefix string                             `msgpack:"cp,omitempty"`
}

// LookupResponse answers longest and contains requests.
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	Found     bool   `msgpack:"ok"`
	TimeTaken int64  `msgpack:"t"`
}

// DictionarySizeOption - dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"chunk_count"`
	WordCount  int    `msgpack:"word_count"`
	SizeLabel  string `msgpack:"size_label"`
}

// DictionaryResponse - dictionary operation response
type DictionaryResponse struct {
	ID              string                 `msgpack:"id"`
	Status          string                 `msgpack:"status"`
	Error           string                 `msgpack:"error,omitempty"`
	CurrentChunks   int                    `msgpack:"current_chunks,omitempty"`
	TargetChunks    int                    `msgpack:"target_chunks,omitempty"`
	AvailableChunks int                    `msgpack:"available_chunks,omitempty"`
	MaxWords        int                    `msgpack:"max_words,omitempty"`
	Options         []DictionarySizeOption `msgpack:"options,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
