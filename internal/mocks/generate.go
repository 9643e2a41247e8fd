// Package mocks provides mock implementations for testing the gateway's auth ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// The mocks are generated using go:generate directives and provide a fluent API
// for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	recorder := mocks.NewMockAuditRecorder(ctrl)
//	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for AuditRecorder interface from internal/ports package.
// This creates MockAuditRecorder with a mock for Record.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_recorder_mock.go github.com/mtnd/patrimoine-gateway/internal/ports AuditRecorder
