package library

import (
	"context"
	"slices"
)

// MemoryReader serves a fixed snapshot held in memory.
type MemoryReader struct {
	snap Snapshot
}

// NewMemoryReader constructs a MemoryReader over snap.
func NewMemoryReader(snap Snapshot) *MemoryReader {
	return &MemoryReader{snap: snap}
}

// Snapshot returns a copy of the held snapshot.
func (r *MemoryReader) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Industries:            slices.Clone(r.snap.Industries),
		ComplianceFrameworks:  slices.Clone(r.snap.ComplianceFrameworks),
		DeploymentTypes:       slices.Clone(r.snap.DeploymentTypes),
		BusinessDomains:       slices.Clone(r.snap.BusinessDomains),
		AuthenticationMethods: slices.Clone(r.snap.AuthenticationMethods),
		NetworkSegments:       slices.Clone(r.snap.NetworkSegments),
		Vendors:               slices.Clone(r.snap.Vendors),
		UseCases:              slices.Clone(r.snap.UseCases),
		Requirements:          slices.Clone(r.snap.Requirements),
	}, nil
}

func (r *MemoryReader) Industries(ctx context.Context) ([]Industry, error) {
	return cloneIfLive(ctx, r.snap.Industries)
}

func (r *MemoryReader) ComplianceFrameworks(ctx context.Context) ([]ComplianceFramework, error) {
	return cloneIfLive(ctx, r.snap.ComplianceFrameworks)
}

func (r *MemoryReader) DeploymentTypes(ctx context.Context) ([]DeploymentType, error) {
	return cloneIfLive(ctx, r.snap.DeploymentTypes)
}

func (r *MemoryReader) BusinessDomains(ctx context.Context) ([]BusinessDomain, error) {
	return cloneIfLive(ctx, r.snap.BusinessDomains)
}

func (r *MemoryReader) AuthenticationMethods(ctx context.Context) ([]AuthenticationMethod, error) {
	return cloneIfLive(ctx, r.snap.AuthenticationMethods)
}

func (r *MemoryReader) NetworkSegments(ctx context.Context) ([]NetworkSegment, error) {
	return cloneIfLive(ctx, r.snap.NetworkSegments)
}

func (r *MemoryReader) Vendors(ctx context.Context) ([]Vendor, error) {
	return cloneIfLive(ctx, r.snap.Vendors)
}

func (r *MemoryReader) UseCases(ctx context.Context) ([]UseCase, error) {
	return cloneIfLive(ctx, r.snap.UseCases)
}

func (r *MemoryReader) Requirements(ctx context.Context) ([]Requirement, error) {
	return cloneIfLive(ctx, r.snap.Requirements)
}

func cloneIfLive[T any](ctx context.Context, items []T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

var (
	_ Reader         = (*MemoryReader)(nil)
	_ SnapshotReader = (*MemoryReader)(nil)
)
