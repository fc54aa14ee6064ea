package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pestle/internal/log"
)

// HTTPSubmitter posts the request as multipart form data to a configured
// endpoint. Field order is preserved in the written parts.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	tracer   trace.Tracer
}

// NewHTTPSubmitter creates a submitter for the given endpoint. A zero
// timeout disables the client timeout.
func NewHTTPSubmitter(endpoint string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		tracer:   otel.Tracer("pestle/submit"),
	}
}

var _ Submitter = (*HTTPSubmitter)(nil)

// Submit posts the request. The returned Result carries a user-facing error
// message; transport details go to the log only.
func (s *HTTPSubmitter) Submit(ctx context.Context, req Request) Result {
	ctx, span := s.tracer.Start(ctx, "submit.http")
	defer span.End()
	span.SetAttributes(
		attribute.String("submission.id", req.SubmissionID.String()),
		attribute.String("submission.type", string(req.Type)),
		attribute.Int("submission.fields", len(req.Fields)),
	)

	body, contentType, err := encodeMultipart(req.Fields)
	if err != nil {
		log.ErrorErr(log.CatSubmit, "failed to encode submission", err, "id", req.SubmissionID)
		span.SetStatus(codes.Error, err.Error())
		return Result{Err: "Submission failed. Please try again."}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		log.ErrorErr(log.CatSubmit, "failed to build submission request", err, "id", req.SubmissionID)
		span.SetStatus(codes.Error, err.Error())
		return Result{Err: "Submission failed. Please try again."}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.ErrorErr(log.CatSubmit, "submission request failed", err, "id", req.SubmissionID)
		span.SetStatus(codes.Error, err.Error())
		return Result{Err: "Submission failed. Please check your connection and try again."}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.ErrorErr(log.CatSubmit, "failed to read submission response", err, "id", req.SubmissionID)
		span.SetStatus(codes.Error, err.Error())
		return Result{Err: "Submission failed. Please try again."}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error(log.CatSubmit, "submission rejected",
			"id", req.SubmissionID, "status", resp.StatusCode)
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", resp.StatusCode))
		return Result{Err: serverMessage(raw)}
	}

	var reply struct {
		Reply []string `json:"reply"`
	}
	// A 2xx without at least one reply line is not an acceptance: the
	// journal echoes the recorded application on success.
	if err := json.Unmarshal(raw, &reply); err != nil || len(reply.Reply) == 0 {
		log.Error(log.CatSubmit, "submission response had no reply",
			"id", req.SubmissionID, "status", resp.StatusCode)
		span.SetStatus(codes.Error, "empty reply")
		return Result{Err: "Submission failed. Please try again."}
	}

	log.Info(log.CatSubmit, "submission accepted", "id", req.SubmissionID, "status", resp.StatusCode)
	return Result{Reply: reply.Reply}
}

// serverMessage extracts a user-facing error from a rejection body, falling
// back to a generic message.
func serverMessage(raw []byte) string {
	var body struct {
		Err string `json:"err"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Err != "" {
		return body.Err
	}
	return "Submission failed. Please try again."
}

func encodeMultipart(fields []Field) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.Key, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", f.Key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
