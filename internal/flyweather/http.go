package flyweather

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/dates"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/meteoblue"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/opencage"
)

// CodeError pairs a user-facing message with the HTTP status it maps to.
type CodeError struct {
	code int
	msg  string
}

func (c CodeError) Error() string {
	return c.msg
}

type ChatResponse struct {
	Error    string `json:"error,omitempty"`
	Response string `json:"response,omitempty"`
}

type WeatherResponse struct {
	Error   string `json:"error,omitempty"`
	Weather string `json:"weather,omitempty"`
}

// Start serves the HTTP boundary. The REPL of earlier versions is gone; this
// is the only presentation surface.
func (s *Service) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.ChatHandler)
	mux.HandleFunc("/weather", s.WeatherHandler)
	mux.HandleFunc("/flying-day", s.FlyingDayHandler)

	_ = http.ListenAndServe(s.cfg.ListenAddr, mux)
}

func (s *Service) ChatHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, CodeError{code: 400, msg: "Missing 'q' query parameter in request"})
		return
	}
	s.writeResponse(w, ChatResponse{Response: s.Chat(r.Context(), q)})
}

func (s *Service) WeatherHandler(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		s.writeError(w, CodeError{code: 400, msg: "Missing 'location' query parameter in request"})
		return
	}
	dateText := r.URL.Query().Get("date")
	if dateText == "" {
		dateText = "today"
	}

	report, err := s.GetWeather(r.Context(), location, dateText)
	if err != nil {
		s.writeError(w, s.codeError(err, location))
		return
	}
	s.writeResponse(w, WeatherResponse{Weather: report})
}

func (s *Service) FlyingDayHandler(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		s.writeError(w, CodeError{code: 400, msg: "Missing 'location' query parameter in request"})
		return
	}

	report, err := s.OptimalFlyingDay(r.Context(), location)
	if err != nil {
		s.writeError(w, s.codeError(err, location))
		return
	}
	s.writeResponse(w, report)
}

// codeError converts a typed failure into a CodeError: user-correctable
// problems are 400s, upstream trouble is a 500, and the message is always the
// plain-language sentence, never a stack trace.
func (s *Service) codeError(err error, location string) CodeError {
	msg := s.friendlyError(err, location)
	var notFound *opencage.NotFoundError
	var badDate *dates.ParseError
	var outOfRange *meteoblue.OutOfRangeError
	if errors.As(err, &notFound) || errors.As(err, &badDate) || errors.As(err, &outOfRange) {
		return CodeError{code: 400, msg: msg}
	}
	return CodeError{code: 500, msg: msg}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	codeErr, ok := err.(CodeError)
	if ok {
		bodyBytes, _ := json.Marshal(ChatResponse{Error: codeErr.Error()})
		w.WriteHeader(codeErr.code)
		io.WriteString(w, string(bodyBytes[:]))
	} else {
		w.WriteHeader(500)
		io.WriteString(w, "Internal server error")
	}
}

func (s *Service) writeResponse(w http.ResponseWriter, resp any) {
	bodyBytes, _ := json.Marshal(resp)
	w.WriteHeader(200)
	io.WriteString(w, string(bodyBytes[:]))
}
