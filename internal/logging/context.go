package logging

import "context"

type contextKey string

const (
	datasetKey   contextKey = "dataset_id"
	operationKey contextKey = "operation"
)

// WithDataset annotates context with the dataset identifier being processed.
func WithDataset(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, datasetKey, id)
}

// DatasetFromContext extracts the dataset identifier if present.
func DatasetFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(datasetKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the pipeline operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext extracts the pipeline operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
