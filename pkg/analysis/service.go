// Package analysis runs the per-character image analysis flow: validate the
// upload, mark the character as analyzing, call the vision model once and
// fold the normalized answer back into the session in a single update.
package analysis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"veoprompt/pkg/flight"
	"veoprompt/pkg/inference"
	"veoprompt/pkg/queue"
	"veoprompt/pkg/queue/worker"
	"veoprompt/pkg/schema"
	"veoprompt/pkg/session"
)

// Upload is what the file-input collaborator hands over.
type Upload struct {
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// PreviewCreator is the object-reference collaborator.
type PreviewCreator interface {
	Create(data []byte, mimeType string) (string, error)
}

type Options struct {
	Workers   int
	QueueSize int
	MaxBytes  int64
	Timeout   time.Duration
}

type job struct {
	characterID string
	image       []byte
	mimeType    string
	ctx         context.Context
	finish      func()
}

type Service struct {
	session  *session.Session
	analyzer inference.Analyzer
	previews PreviewCreator
	flights  flight.Registry[string]
	queue    *worker.Queue[job]

	maxBytes int64
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewService(sess *session.Session, analyzer inference.Analyzer, previews PreviewCreator, opts Options) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		session:  sess,
		analyzer: analyzer,
		previews: previews,
		flights:  flight.NewRegistry[string](),
		maxBytes: cmp.Or(opts.MaxBytes, 10<<20),
		timeout:  cmp.Or(opts.Timeout, 2*time.Minute),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.queue = worker.New[job]("analysis", cmp.Or(opts.Workers, 2), cmp.Or(opts.QueueSize, 32), s.process)
	return s
}

func (s *Service) Start() {
	s.queue.Start()
}

// Stop cancels running analyses and stops the workers.
func (s *Service) Stop() {
	s.cancel()
	s.flights.CancelAll()
	s.queue.Stop()
	for _, j := range s.queue.Drain() {
		s.fail(j.characterID, fmt.Errorf("%w: %w", inference.ErrTransport, queue.ErrStopped))
		j.finish()
	}
}

// Cancel aborts the analysis running for a character, if any. It is wired
// as the session's delete hook so a deleted character's call is dropped.
func (s *Service) Cancel(characterID string) {
	if s.flights.Cancel(characterID) {
		log.Info("cancelled analysis for deleted character", "character", characterID)
	}
}

func (s *Service) Running(characterID string) bool {
	return s.flights.Running(characterID)
}

// Submit validates and reads the upload, then enters the analyzing state
// with the new preview bound and queues the remote call. It returns as soon
// as the job is queued.
func (s *Service) Submit(characterID string, up Upload) (schema.Character, error) {
	if !IsImageType(up.MimeType) {
		return schema.Character{}, fmt.Errorf("%w: %q", ErrInvalidFileType, up.MimeType)
	}

	jobCtx, finish, ok := s.flights.Begin(s.ctx, characterID)
	if !ok {
		return schema.Character{}, ErrAlreadyAnalyzing
	}

	current, err := s.session.Character(characterID)
	if err != nil {
		finish()
		return schema.Character{}, err
	}
	if current.Analyzing {
		finish()
		return schema.Character{}, ErrAlreadyAnalyzing
	}

	data, err := s.read(up)
	var previewID string
	if err == nil {
		if previewID, err = s.previews.Create(data, up.MimeType); err != nil {
			err = fmt.Errorf("%w: %w", ErrFileRead, err)
		}
	}
	if err != nil {
		s.fail(characterID, err)
		finish()
		return schema.Character{}, err
	}

	if _, err := s.session.BeginAnalysis(characterID, previewID); err != nil {
		finish()
		if errors.Is(err, session.ErrAnalyzing) {
			return schema.Character{}, ErrAlreadyAnalyzing
		}
		return schema.Character{}, err
	}

	j := job{characterID: characterID, image: data, mimeType: up.MimeType, ctx: jobCtx, finish: finish}
	if err := s.queue.Add(j); err != nil {
		err = fmt.Errorf("%w: %w", inference.ErrTransport, err)
		s.fail(characterID, err)
		finish()
		return schema.Character{}, err
	}

	log.Info("image analysis queued", "character", characterID, "mime", up.MimeType, "bytes", len(data))
	return s.session.Character(characterID)
}

// SubmitAndWait is Submit followed by waiting for the merge or failure.
// The returned error is the analysis failure, if any.
func (s *Service) SubmitAndWait(ctx context.Context, characterID string, up Upload) (schema.Character, error) {
	if _, err := s.Submit(characterID, up); err != nil {
		return schema.Character{}, err
	}
	if err := s.flights.Wait(ctx, characterID); err != nil {
		return schema.Character{}, err
	}

	c, err := s.session.Character(characterID)
	if err != nil {
		return c, err
	}
	if c.AnalysisError != nil {
		return c, c.AnalysisError.Error
	}
	return c, nil
}

func (s *Service) read(up Upload) ([]byte, error) {
	if up.Open == nil {
		return nil, fmt.Errorf("%w: no file", ErrFileRead)
	}
	rc, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	case len(data) == 0:
		return nil, fmt.Errorf("%w: empty file", ErrFileRead)
	case int64(len(data)) > s.maxBytes:
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrFileRead, s.maxBytes)
	}
	return data, nil
}

func (s *Service) process(queueCtx context.Context, j job) {
	defer j.finish()
	stop := context.AfterFunc(queueCtx, func() { s.flights.Cancel(j.characterID) })
	defer stop()

	ctx, cancel := context.WithTimeout(j.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, j.image, j.mimeType, Instruction())
	if err != nil {
		if !errors.Is(err, inference.ErrMalformedResponse) && !errors.Is(err, inference.ErrTransport) {
			err = fmt.Errorf("%w: %w", inference.ErrTransport, err)
		}
		s.fail(j.characterID, err)
		return
	}

	update := Normalize(result)
	if _, err := s.session.CompleteAnalysis(j.characterID, update); err != nil {
		if isDiscarded(err) {
			log.Debug("discarding analysis for deleted character", "character", j.characterID)
			return
		}
		log.Error("failed to merge analysis", "character", j.characterID, "error", err)
		return
	}
	log.Info("image analysis merged", "character", j.characterID, "race", update.Race, "took", time.Since(start).Round(time.Millisecond))
}

func (s *Service) fail(characterID string, err error) {
	notice := newNotice(err)
	if isQueueRejection(err) {
		log.Warn("analysis queue rejected job", "character", characterID, "error", err)
	} else {
		log.Error("image analysis failed", "character", characterID, "kind", notice.Kind, "error", err)
	}
	if ferr := s.session.FailAnalysis(characterID, notice); ferr != nil && isDiscarded(ferr) {
		log.Debug("discarding analysis failure for deleted character", "character", characterID)
	}
}

// IsImageType reports whether a declared media type is an image type.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}
