// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
)

// Change describes one catalog write that makes cached pages stale.
type Change struct {
	Entity string   // e.g. "category", "product"
	ID     string   // id of the written row
	Action string   // "upsert" or "delete"
	Paths  []string // request paths whose cached pages must go
	All    bool     // purge every cached page, Paths is ignored
}

// EventLog records invalidation events (see store.CacheLogStore).
type EventLog interface {
	Log(ctx context.Context, entityType, entityID, action string)
}

// Invalidator purges the page cache after catalog writes and records the
// event. Either dependency may be nil.
type Invalidator struct {
	pages *PageCache
	log   EventLog
}

// NewInvalidator wires the page cache and the event log together.
func NewInvalidator(pages *PageCache, log EventLog) *Invalidator {
	return &Invalidator{pages: pages, log: log}
}

// Invalidate drops the cached pages of c.Paths, or all of them when c.All
// is set, and logs the change.
func (i *Invalidator) Invalidate(ctx context.Context, c Change) {
	switch {
	case i.pages == nil:
	case c.All:
		i.pages.InvalidateAll(ctx)
	default:
		for _, p := range c.Paths {
			i.pages.InvalidatePath(ctx, p)
		}
	}
	if i.log != nil {
		i.log.Log(ctx, c.Entity, c.ID, c.Action)
	}
	slog.Debug("catalog change invalidated", "entity", c.Entity, "id", c.ID, "action", c.Action, "paths", c.Paths, "all", c.All)
}
