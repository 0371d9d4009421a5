// Package cli is the interactive question and answer loop, for trying the matcher by hand.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/askserve/internal/utils"
	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

const noMatchText = "I couldn't find a specific answer to your question. Could you:\n" +
	"  1. Rephrase your question\n" +
	"  2. Use more specific terms\n" +
	"  3. Break down your question if it's complex"

// FeedbackHook runs after feedback was recorded, usually to persist learned state.
type FeedbackHook func()

// InputHandler reads questions from stdin, prints the best answer and
// alternatives, and asks whether the answer helped.
type InputHandler struct {
	engine       suggest.IEngine
	explain      bool
	onFeedback   FeedbackHook
	reader       *bufio.Reader
	out          *log.Logger
	requestCount int
}

// NewInputHandler creates a handler on stdin and stderr.
func NewInputHandler(engine suggest.IEngine, explain bool) *InputHandler {
	return NewInputHandlerWithIO(engine, explain, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler on arbitrary streams.
func NewInputHandlerWithIO(engine suggest.IEngine, explain bool, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		engine:  engine,
		explain: explain,
		reader:  bufio.NewReader(r),
		out: log.NewWithOptions(w, log.Options{
			ReportTimestamp: false,
			Level:           log.InfoLevel,
		}),
	}
}

// SetFeedbackHook registers fn to run after each recorded feedback.
func (h *InputHandler) SetFeedbackHook(fn FeedbackHook) {
	h.onFeedback = fn
}

// Start runs the loop until input ends or the user types :q.
// Lines starting with ':' are commands (:q, :stats).
func (h *InputHandler) Start() error {
	h.out.Print("askserve CLI")
	h.out.Print("ask a question and press Enter (:q to quit, :stats for counters):")

	for {
		h.out.Print("> ")
		line, err := h.readLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := h.handleCommand(line); quit {
				return nil
			}
			continue
		}
		if err := h.handleQuestion(line); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) readLine() (string, error) {
	line, err := h.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (h *InputHandler) handleCommand(cmd string) bool {
	switch cmd {
	case ":q", ":quit", ":exit":
		return true
	case ":stats":
		for k, v := range h.engine.Stats() {
			h.out.Print(k, "value", v)
		}
		h.out.Print("session", "requests", h.requestCount)
	default:
		h.out.Warnf("Unknown command: %s", cmd)
	}
	return false
}

// handleQuestion answers one question and collects feedback on the answer.
func (h *InputHandler) handleQuestion(question string) error {
	h.requestCount++

	if !utils.IsValidQuery(question) {
		h.out.Print(noMatchText)
		return nil
	}

	start := time.Now()
	result := h.engine.Query(question)
	log.Debugf("Took [ %v ] for %q", time.Since(start), question)

	if result.BestMatch == nil {
		h.out.Print(noMatchText)
		return nil
	}

	var reasons map[string][]string
	if h.explain {
		reasons = make(map[string][]string)
		for _, c := range h.engine.Score(question) {
			if _, ok := reasons[c.Entry.Answer]; !ok {
				reasons[c.Entry.Answer] = c.Reasons
			}
		}
	}

	best := result.BestMatch
	h.out.Printf("\033[38;5;75m%s\033[0m", best.Answer)
	if best.Subject != "" {
		h.out.Print("", "subject", best.Subject, "score", fmt.Sprintf("%.2f", best.Score))
	}
	h.printReasons(reasons[best.Answer])

	if len(result.Suggestions) > 0 {
		h.out.Print("You might also be interested in:")
		for i, s := range result.Suggestions {
			h.out.Printf("%2d. %s", i+1, utils.Truncate(s.Question, 80))
			h.printReasons(reasons[s.Answer])
		}
	}

	return h.askFeedback(question, result)
}

func (h *InputHandler) printReasons(reasons []string) {
	for _, r := range reasons {
		h.out.Printf("      - %s", r)
	}
}

// askFeedback reads y, n, a suggestion number, or an empty line to skip.
// Choosing a suggestion records it as the helpful answer.
func (h *InputHandler) askFeedback(question string, result suggest.Result) error {
	prompt := "Was this helpful? [y/n/enter to skip]"
	if len(result.Suggestions) > 0 {
		prompt = fmt.Sprintf("Was this helpful? [y/n/1-%d picks a suggestion/enter to skip]", len(result.Suggestions))
	}
	h.out.Print(prompt)

	answer, err := h.readLine()
	if err != nil {
		return err
	}

	switch strings.ToLower(answer) {
	case "":
		return nil
	case "y", "yes":
		h.record(question, result.BestMatch.Answer, true)
	case "n", "no":
		h.record(question, result.BestMatch.Answer, false)
	default:
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < 1 || n > len(result.Suggestions) {
			h.out.Warnf("Ignoring feedback %q", answer)
			return nil
		}
		h.record(question, result.Suggestions[n-1].Answer, true)
	}
	return nil
}

func (h *InputHandler) record(question, answer string, helpful bool) {
	event := h.engine.RecordFeedback(question, answer, helpful)
	log.Debugf("Recorded feedback %s (helpful=%v)", event.ID, helpful)
	h.out.Print("Thanks, noted.")
	if h.onFeedback != nil {
		h.onFeedback()
	}
}
