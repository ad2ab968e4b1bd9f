// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify writes user notifications.

Insert writes one row and is meant for notifications that must commit
together with other writes:

	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		// ...
		_, err := notify.Insert(ctx, tx, note)
		return err
	})

Notifier.Notify is best-effort. Rows are inserted concurrently with a bounded
errgroup, each retried a few times; failures are logged and dropped so the
operation that triggered them is never rolled back:

	notify.New(conn).Notify(ctx, notify.DrawCompleted(organizerID, eventID, name, members)...)

Never call Notify while holding a transaction on a single-connection pool.
*/
package notify
