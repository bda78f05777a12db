// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package datastore pushes widget data to a user's devices.

# Client

Client.PushCommands posts to {base}/v1/datastore/commands with the
credential in the Authorization header. The outcome comes back as a Result:

	result := client.PushCommands(ctx, cred, commands, datastore.UserTarget(userID))
	if !result.OK() {
		// logged already; the user-facing response does not change
	}

Pushes are best effort. No retries, and no timeout beyond the one set on the
http.Client (none by default).

# Syncer

Syncer couples the token client and the push:

	syncer := datastore.NewSyncer(tokenClient, client, "plantCareReminder", "plantData")
	syncer.SyncLastWatered(ctx, userID, "2024-05-01")

It sends a single PUT_OBJECT command whose content is
{"lastWateredDate": date}. Without a token the push is skipped.
*/
package datastore
