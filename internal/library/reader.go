package library

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Reader is the read-only accessor for the resource library. Every accessor returns
// only the active/approved subset of its collection.
type Reader interface {
	Industries(ctx context.Context) ([]Industry, error)
	ComplianceFrameworks(ctx context.Context) ([]ComplianceFramework, error)
	DeploymentTypes(ctx context.Context) ([]DeploymentType, error)
	BusinessDomains(ctx context.Context) ([]BusinessDomain, error)
	AuthenticationMethods(ctx context.Context) ([]AuthenticationMethod, error)
	NetworkSegments(ctx context.Context) ([]NetworkSegment, error)
	Vendors(ctx context.Context) ([]Vendor, error)
	UseCases(ctx context.Context) ([]UseCase, error)
	Requirements(ctx context.Context) ([]Requirement, error)
}

// SnapshotReader is implemented by readers that can produce every collection from a single read.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Load reads a full snapshot from r. Collections are fetched concurrently and the
// first error is returned as-is; no partial snapshot is ever returned.
func Load(ctx context.Context, r Reader) (Snapshot, error) {
	if sr, ok := r.(SnapshotReader); ok {
		return sr.Snapshot(ctx)
	}

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Industries, err = r.Industries(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.ComplianceFrameworks, err = r.ComplianceFrameworks(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.DeploymentTypes, err = r.DeploymentTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.BusinessDomains, err = r.BusinessDomains(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.AuthenticationMethods, err = r.AuthenticationMethods(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.NetworkSegments, err = r.NetworkSegments(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Vendors, err = r.Vendors(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.UseCases, err = r.UseCases(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Requirements, err = r.Requirements(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
