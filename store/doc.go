// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists the per-user attribute record.

A Backend loads and writes whole records. SQLStore keeps them in the
user_attributes table as JSON; Memory keeps them in a map.

Handlers never talk to a Backend directly. Each dispatched request gets a
Manager bound to the requesting user:

	m := store.NewManager(backend, userID)
	attrs, _ := m.Get(ctx)      // absent record → empty Attributes
	attrs.AddInstance(id)
	m.Set(attrs)
	err := m.Save(ctx)

Writes are read-modify-write without version checks. Two concurrent events
for the same user race and the last Save wins.
*/
package store
