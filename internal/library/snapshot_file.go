package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"nac-advisor/internal/shared/storage/object"
)

const snapshotContentType = "application/yaml"

// ParseSnapshot decodes a YAML (or JSON) snapshot document and validates record ids.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// MarshalSnapshot encodes snap as YAML.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// validate checks every record has an id and ids are unique within a collection.
func validate(snap Snapshot) error {
	checks := []struct {
		name string
		ids  []string
	}{
		{"industries", idsOf(snap.Industries, func(v Industry) string { return v.ID })},
		{"compliance_frameworks", idsOf(snap.ComplianceFrameworks, func(v ComplianceFramework) string { return v.ID })},
		{"deployment_types", idsOf(snap.DeploymentTypes, func(v DeploymentType) string { return v.ID })},
		{"business_domains", idsOf(snap.BusinessDomains, func(v BusinessDomain) string { return v.ID })},
		{"authentication_methods", idsOf(snap.AuthenticationMethods, func(v AuthenticationMethod) string { return v.ID })},
		{"network_segments", idsOf(snap.NetworkSegments, func(v NetworkSegment) string { return v.ID })},
		{"vendors", idsOf(snap.Vendors, func(v Vendor) string { return v.ID })},
		{"use_cases", idsOf(snap.UseCases, func(v UseCase) string { return v.ID })},
		{"requirements", idsOf(snap.Requirements, func(v Requirement) string { return v.ID })},
	}
	for _, c := range checks {
		seen := make(map[string]struct{}, len(c.ids))
		for i, id := range c.ids {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("%w: %s[%d] has no id", ErrInvalidSnapshot, c.name, i)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s has duplicate id %q", ErrInvalidSnapshot, c.name, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

// FileReader reads a snapshot document from an object store. Every call re-reads
// the object, so an updated upload is visible to the next analysis.
type FileReader struct {
	Store object.ObjectStore
	Key   string
}

// NewFileReader constructs a FileReader for key in store.
func NewFileReader(store object.ObjectStore, key string) *FileReader {
	return &FileReader{Store: store, Key: key}
}

// Snapshot fetches and parses the stored document.
func (r *FileReader) Snapshot(ctx context.Context) (Snapshot, error) {
	rc, err := r.Store.Open(ctx, r.Key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, r.Key)
		}
		return Snapshot{}, fmt.Errorf("open library snapshot: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read library snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// Publish validates snap and writes it to the store under the reader's key.
func (r *FileReader) Publish(ctx context.Context, snap Snapshot) (int64, error) {
	if err := validate(snap); err != nil {
		return 0, err
	}
	data, err := MarshalSnapshot(snap)
	if err != nil {
		return 0, fmt.Errorf("encode library snapshot: %w", err)
	}
	return r.Store.SaveWithKey(ctx, r.Key, snapshotContentType, bytes.NewReader(data))
}

func (r *FileReader) Industries(ctx context.Context) ([]Industry, error) {
	snap, err := r.Snapshot(ctx)
	return snap.Industries, err
}

func (r *FileReader) ComplianceFrameworks(ctx context.Context) ([]ComplianceFramework, error) {
	snap, err := r.Snapshot(ctx)
	return snap.ComplianceFrameworks, err
}

func (r *FileReader) DeploymentTypes(ctx context.Context) ([]DeploymentType, error) {
	snap, err := r.Snapshot(ctx)
	return snap.DeploymentTypes, err
}

func (r *FileReader) BusinessDomains(ctx context.Context) ([]BusinessDomain, error) {
	snap, err := r.Snapshot(ctx)
	return snap.BusinessDomains, err
}

func (r *FileReader) AuthenticationMethods(ctx context.Context) ([]AuthenticationMethod, error) {
	snap, err := r.Snapshot(ctx)
	return snap.AuthenticationMethods, err
}

func (r *FileReader) NetworkSegments(ctx context.Context) ([]NetworkSegment, error) {
	snap, err := r.Snapshot(ctx)
	return snap.NetworkSegments, err
}

func (r *FileReader) Vendors(ctx context.Context) ([]Vendor, error) {
	snap, err := r.Snapshot(ctx)
	return snap.Vendors, err
}

func (r *FileReader) UseCases(ctx context.Context) ([]UseCase, error) {
	snap, err := r.Snapshot(ctx)
	return snap.UseCases, err
}

func (r *FileReader) Requirements(ctx context.Context) ([]Requirement, error) {
	snap, err := r.Snapshot(ctx)
	return snap.Requirements, err
}

var (
	_ Reader         = (*FileReader)(nil)
	_ SnapshotReader = (*FileReader)(nil)
)
