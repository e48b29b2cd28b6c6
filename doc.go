// Package backend provides the SocialFusion API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication (credentials, OAuth) and JWT issuance
// - internal/affinity: Suggested users scoring engine
// - internal/repository: Database access for users, content, and the social graph
// - internal/storage: File storage (S3) operations
// - internal/database: Database connection and migrations
// - internal/cache: Redis client
// - internal/middleware: HTTP middleware (rate limiting, caching, metrics)
// - internal/notify: Notification emission for social events
// - internal/stories: Expired story cleanup
// - internal/seed: Development data seeding

// See the individual package documentation for detailed API reference.
package backend
