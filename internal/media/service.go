package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tripstudioapp/tripstudio/internal/config"
	"github.com/tripstudioapp/tripstudio/internal/platform"
)

const (
	minPageSize = 1
	maxPageSize = 250

	defaultUploadName = "upload.jpg"
	defaultUploadMime = "image/jpeg"
)

// Service talks to the platform's file surface: page-by-page listing, batch
// id resolution, and the three-phase staged upload pipeline. Every remote
// call goes through the fixed retry policy; no page is ever cached.
type Service struct {
	client     *platform.Client
	httpClient *http.Client
	retry      RetryPolicy
	logger     *slog.Logger
}

func NewService(log *slog.Logger, client *platform.Client, cfg config.MediaConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With(slog.String("service", "media"))
	return &Service{
		client:     client,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		retry: RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay(),
			OnRetry: func(err error, delay time.Duration) {
				logger.Warn("remote call failed, retrying", slog.Any("error", err), slog.Duration("delay", delay))
			},
		},
		logger: logger,
	}
}

// List fetches one page of the remote media library. pageSize is clamped to
// [1,250]. Nodes whose preview cannot be resolved are dropped.
func (s *Service) List(ctx context.Context, pageSize int, after string) (ListResult, error) {
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	vars := map[string]any{"first": pageSize}
	if after != "" {
		vars["after"] = after
	}

	var out struct {
		Files struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []remoteNode `json:"nodes"`
		} `json:"files"`
	}
	err := s.retry.Do(ctx, func() error {
		return s.client.Execute(ctx, qFilesList, vars, &out)
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list files: %w", err)
	}

	return ListResult{
		Assets: normalizeNodes(out.Files.Nodes),
		PageInfo: PageInfo{
			HasNextPage: out.Files.PageInfo.HasNextPage,
			EndCursor:   out.Files.PageInfo.EndCursor,
		},
	}, nil
}

// ResolveByIDs looks up assets for a set of opaque ids. Blank and duplicate
// ids are filtered; an empty set short-circuits without a remote call.
// Result order is the remote's, not the input's.
func (s *Service) ResolveByIDs(ctx context.Context, ids []string) ([]Asset, error) {
	clean := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return []Asset{}, nil
	}

	var out struct {
		Nodes []remoteNode `json:"nodes"`
	}
	err := s.retry.Do(ctx, func() error {
		return s.client.Execute(ctx, qFilesByIDs, map[string]any{"ids": clean}, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve files: %w", err)
	}

	return normalizeNodes(out.Nodes), nil
}

// Upload runs the stage -> transfer -> register pipeline for the given
// files. The call is all-or-nothing: any phase's terminal failure aborts the
// rest and no partial result is returned. Returned records follow the input
// file order.
func (s *Service) Upload(ctx context.Context, files []UploadFile) ([]Asset, error) {
	if len(files) == 0 {
		return []Asset{}, nil
	}

	targets, err := s.stageUploads(ctx, files)
	if err != nil {
		return nil, err
	}

	for i := range files {
		if err := s.transfer(ctx, files[i], targets[i]); err != nil {
			return nil, err
		}
	}

	created, err := s.registerAssets(ctx, files, targets)
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload pipeline complete", slog.Int("files", len(files)), slog.Int("assets", len(created)))
	return created, nil
}

func (s *Service) stageUploads(ctx context.Context, files []UploadFile) ([]stagedTarget, error) {
	inputs := make([]map[string]any, 0, len(files))
	for _, f := range files {
		name := f.Name
		if name == "" {
			name = defaultUploadName
		}
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = defaultUploadMime
		}
		inputs = append(inputs, map[string]any{
			"resource":   "IMAGE",
			"filename":   name,
			"mimeType":   mimeType,
			"httpMethod": "POST",
		})
	}

	var out struct {
		StagedUploadsCreate struct {
			StagedTargets []stagedTarget       `json:"stagedTargets"`
			UserErrors    []platform.UserError `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}
	err := s.retry.Do(ctx, func() error {
		if err := s.client.Execute(ctx, mStagedUploadsCreate, map[string]any{"inputs": inputs}, &out); err != nil {
			return err
		}
		if len(out.StagedUploadsCreate.UserErrors) > 0 {
			return &ValidationError{Errors: out.StagedUploadsCreate.UserErrors}
		}
		return nil
	})
	if err != nil {
		return nil, &StagingError{Err: err}
	}

	targets := out.StagedUploadsCreate.StagedTargets
	if len(targets) != len(files) {
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrSlotCountMismatch, len(files), len(targets))
	}
	return targets, nil
}

// transfer posts one file's bytes to its staged target with exactly the
// parameter set the slot specified. The payload is buffered up front so the
// body can be rebuilt on retry.
func (s *Service) transfer(ctx context.Context, file UploadFile, target stagedTarget) error {
	name := file.Name
	if name == "" {
		name = defaultUploadName
	}
	payload, err := io.ReadAll(file.Reader)
	if err != nil {
		return &TransferError{Filename: name, Err: fmt.Errorf("read file: %w", err)}
	}

	return s.retry.Do(ctx, func() error {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		for _, p := range target.Parameters {
			if err := writer.WriteField(p.Name, p.Value); err != nil {
				return backoff.Permanent(&TransferError{Filename: name, Err: err})
			}
		}
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			return backoff.Permanent(&TransferError{Filename: name, Err: err})
		}
		if _, err := part.Write(payload); err != nil {
			return backoff.Permanent(&TransferError{Filename: name, Err: err})
		}
		if err := writer.Close(); err != nil {
			return backoff.Permanent(&TransferError{Filename: name, Err: err})
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
		if err != nil {
			return backoff.Permanent(&TransferError{Filename: name, Err: err})
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return &TransferError{Filename: name, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(resp.Body)
			return &TransferError{Filename: name, StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		return nil
	})
}

func (s *Service) registerAssets(ctx context.Context, files []UploadFile, targets []stagedTarget) ([]Asset, error) {
	resources := make([]map[string]any, 0, len(targets))
	for i, t := range targets {
		resources = append(resources, map[string]any{
			"originalSource": t.ResourceURL,
			"alt":            files[i].Name,
			"contentType":    "IMAGE",
		})
	}

	var out struct {
		FileCreate struct {
			Files      []remoteNode         `json:"files"`
			UserErrors []platform.UserError `json:"userErrors"`
		} `json:"fileCreate"`
	}
	err := s.retry.Do(ctx, func() error {
		if err := s.client.Execute(ctx, mFileCreate, map[string]any{"files": resources}, &out); err != nil {
			return err
		}
		if len(out.FileCreate.UserErrors) > 0 {
			return &ValidationError{Errors: out.FileCreate.UserErrors}
		}
		return nil
	})
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}

	return normalizeNodes(out.FileCreate.Files), nil
}
