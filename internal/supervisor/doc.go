// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

/*
Package supervisor hosts long-running services when the report job runs in
scheduled mode, using suture v4.

The tree is small:

	RootSupervisor ("jester-report")
	└── JobSupervisor ("job-layer")
	    └── report-scheduler

A crashed service is restarted with backoff. Supervisor events (start,
failure, restart, backoff) are logged through sutureslog, which writes to the
zerolog global logger via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddJobService(sched)
	err = tree.Serve(ctx) // blocks until ctx is cancelled

In one-shot mode (the default) no supervisor is created.
*/
package supervisor
