// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package supervisor provides process supervision for Vodarchive using suture v4.

Every long-running component runs as a suture.Service under a three-layer
tree:

	RootSupervisor ("vodarchive")
	├── DataSupervisor ("data-layer")
	│   └── ImportService (only when IMPORT_LEGACY_PATH is set)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── SyncService (scheduled syncs)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Canceling the context
passed to Serve stops the tree; services that miss the shutdown timeout are
listed by UnstoppedServiceReport.

Supervisor events are logged through sutureslog into the zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewSyncService(syncMgr))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
