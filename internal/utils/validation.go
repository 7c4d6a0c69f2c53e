package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// GenerateRequest is the body of the generation proxy endpoint.
type GenerateRequest struct {
	Prompt          string   `json:"prompt"`
	Images          []string `json:"images,omitempty"`
	Type            string   `json:"type" validate:"required,oneof=image video video-status"`
	AspectRatio     string   `json:"aspectRatio,omitempty"`
	BackgroundStyle string   `json:"backgroundStyle,omitempty"`
	OperationName   string   `json:"operationName,omitempty"`
	VersionID       *uint    `json:"versionId,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed: %v", err)
	}
	switch r.Type {
	case "image", "video":
		if r.Prompt == "" {
			return fmt.Errorf("prompt is required for %s generation", r.Type)
		}
	case "video-status":
		if r.OperationName == "" {
			return fmt.Errorf("operationName is required for video-status")
		}
	}
	if r.AspectRatio != "" {
		valid := map[string]bool{"1:1": true, "16:9": true, "9:16": true, "4:3": true, "3:4": true}
		if !valid[r.AspectRatio] {
			return fmt.Errorf("invalid aspect ratio: %s", r.AspectRatio)
		}
	}
	return nil
}

// BackupRequest is the body for creating a backup.
type BackupRequest struct {
	Type string `json:"type" validate:"required,oneof=promptSet media all"`
}

func (r *BackupRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed: %v", err)
	}
	return nil
}
