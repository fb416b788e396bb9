// Package batch records many messages at once, e.g. a notes file exported
// from a phone, by running every line through the assistant.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/assistant"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

// Handler records one message
type Handler interface {
	Handle(ctx context.Context, text string) (*assistant.Response, error)
}

type Processor struct {
	handler Handler
	config  Config
	logger  *zap.Logger
}

type Config struct {
	MaxConcurrency int
	Timeout        time.Duration
	RetryCount     int
	RetryDelay     time.Duration
	SkipInvalid    bool
}

type InputItem struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type OutputItem struct {
	ID           string        `json:"id"`
	Input        string        `json:"input"`
	Kind         string        `json:"kind,omitempty"`
	Source       string        `json:"source,omitempty"`
	Reply        string        `json:"reply,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`

	index int
}

type Result struct {
	Total     int
	Recorded  int
	Unmatched int
	Failed    int
	Duration  time.Duration
	Items     []OutputItem
	StartTime time.Time
	EndTime   time.Time
}

func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 2,
		Timeout:        60 * time.Second,
		RetryCount:     1,
		RetryDelay:     time.Second,
		SkipInvalid:    true,
	}
}

func NewProcessor(h Handler, cfg Config, logger *zap.Logger) *Processor {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		handler: h,
		config:  cfg,
		logger:  logger,
	}
}

// ProcessFile reads messages from inputPath (text: one per line, a JSON
// array, or JSON lines) and writes a report to outputPath when it is set
func (p *Processor) ProcessFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	items, err := p.loadInputFile(inputPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrBadRequest.Code, "failed to load input file")
	}

	result := p.Process(ctx, items)

	if outputPath != "" {
		if err := saveOutputFile(outputPath, result); err != nil {
			return result, apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to save output file")
		}
	}
	return result, nil
}

// Process handles items with a bounded worker pool. Items keep their input order.
func (p *Processor) Process(ctx context.Context, items []InputItem) *Result {
	result := &Result{
		Total:     len(items),
		StartTime: time.Now(),
		Items:     make([]OutputItem, 0, len(items)),
	}

	type job struct {
		index int
		item  InputItem
	}
	jobs := make(chan job, len(items))
	results := make(chan OutputItem, len(items))

	var wg sync.WaitGroup
	for i := 0; i < p.config.MaxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out := p.processItem(ctx, j.item)
				out.index = j.index
				results <- out
			}
		}()
	}

	for i, item := range items {
		jobs <- job{index: i, item: item}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		result.Items = append(result.Items, out)
		switch {
		case !out.Success:
			result.Failed++
		case out.Kind == "expense" || out.Kind == "income" || out.Kind == "event":
			result.Recorded++
		default:
			result.Unmatched++
		}
	}
	sort.Slice(result.Items, func(i, j int) bool { return result.Items[i].index < result.Items[j].index })

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

func (p *Processor) processItem(ctx context.Context, item InputItem) OutputItem {
	output := OutputItem{
		ID:        item.ID,
		Input:     item.Message,
		Timestamp: time.Now(),
	}

	var (
		resp *assistant.Response
		err  error
	)
	for attempt := 0; attempt <= p.config.RetryCount; attempt++ {
		itemCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		if attempt > 0 {
			// the user message is already in the chat history
			itemCtx = assistant.AsRetry(itemCtx)
		}
		start := time.Now()
		resp, err = p.handler.Handle(itemCtx, item.Message)
		output.ResponseTime = time.Since(start)
		cancel()

		// bad input does not get better on retry
		if err == nil || apperrors.Is(err, apperrors.ErrBadRequest) || ctx.Err() != nil {
			break
		}
		if attempt < p.config.RetryCount {
			time.Sleep(p.config.RetryDelay)
		}
	}

	if err != nil {
		p.logger.Warn("Batch item failed", zap.String("id", item.ID), zap.Error(err))
		output.Error = err.Error()
		return output
	}

	output.Kind = string(resp.Kind)
	output.Source = string(resp.Source)
	output.Reply = resp.Reply
	output.Success = true
	return output
}

func (p *Processor) loadInputFile(path string) ([]InputItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return p.loadJSON(file)
	case ".jsonl":
		return p.loadJSONLines(file)
	}
	return loadText(file)
}

// loadJSON accepts an array of strings or {"message": ...} objects, or a
// stream of such objects
func (p *Processor) loadJSON(r io.Reader) ([]InputItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return p.loadJSONStream(bytes.NewReader(data))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}

	var items []InputItem
	for i, raw := range elems {
		if err := p.appendItem(&items, raw, fmt.Sprintf("element %d", i+1)); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// loadJSONStream decodes concatenated JSON values. A syntax error ends the
// stream since the decoder cannot resynchronize.
func (p *Processor) loadJSONStream(r io.Reader) ([]InputItem, error) {
	var items []InputItem
	decoder := json.NewDecoder(r)

	for n := 1; decoder.More(); n++ {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if p.config.SkipInvalid {
				p.logger.Warn("Stopping at invalid JSON", zap.Int("value", n), zap.Error(err))
				return items, nil
			}
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		if err := p.appendItem(&items, raw, fmt.Sprintf("value %d", n)); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// loadJSONLines reads one JSON value per line; bad lines are skipped when
// SkipInvalid is set
func (p *Processor) loadJSONLines(r io.Reader) ([]InputItem, error) {
	var items []InputItem
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := p.appendItem(&items, line, fmt.Sprintf("line %d", lineNum)); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return items, nil
}

func (p *Processor) appendItem(items *[]InputItem, raw []byte, where string) error {
	item, err := decodeItem(raw)
	if err != nil {
		if p.config.SkipInvalid {
			p.logger.Warn("Skipping invalid batch entry", zap.String("at", where), zap.Error(err))
			return nil
		}
		return fmt.Errorf("invalid entry at %s: %w", where, err)
	}
	if strings.TrimSpace(item.Message) == "" {
		return nil
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", len(*items)+1)
	}
	*items = append(*items, item)
	return nil
}

// decodeItem reads either a bare string or an InputItem object
func decodeItem(raw []byte) (InputItem, error) {
	var item InputItem
	if len(raw) > 0 && raw[0] == '"' {
		err := json.Unmarshal(raw, &item.Message)
		return item, err
	}
	err := json.Unmarshal(raw, &item)
	return item, err
}

func loadText(r io.Reader) ([]InputItem, error) {
	var items []InputItem
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, InputItem{
			ID:      fmt.Sprintf("line-%d", lineNum),
			Message: line,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return items, nil
}

func saveOutputFile(path string, result *Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	for _, item := range result.Items {
		fmt.Fprintf(file, "=== %s ===\n", item.ID)
		fmt.Fprintf(file, "Input: %s\n", item.Input)
		if item.Error != "" {
			fmt.Fprintf(file, "Error: %s\n\n", item.Error)
			continue
		}
		fmt.Fprintf(file, "Reply: %s\n", item.Reply)
		fmt.Fprintf(file, "Kind: %s | Source: %s | Time: %v\n\n", item.Kind, item.Source, item.ResponseTime)
	}
	return nil
}

func (r *Result) Summary() string {
	var sb strings.Builder
	sb.WriteString("=== Kết quả nhập ===\n")
	fmt.Fprintf(&sb, "Tổng:        %d\n", r.Total)
	fmt.Fprintf(&sb, "Đã ghi:      %d\n", r.Recorded)
	fmt.Fprintf(&sb, "Không hiểu:  %d\n", r.Unmatched)
	fmt.Fprintf(&sb, "Lỗi:         %d\n", r.Failed)
	fmt.Fprintf(&sb, "Thời gian:   %v\n", r.Duration.Round(time.Millisecond))
	return sb.String()
}
