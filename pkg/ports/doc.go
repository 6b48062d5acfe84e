/*
Package ports defines the driven ports (interfaces) of the sortstep controller.

These interfaces decouple the core logic from external implementations, allowing
the controller to work with various renderers and run stores.

# Key Interfaces

  - Renderer: Consumes step events (terminal bars, NDJSON, SSE, Redis pub/sub).
  - RunStore: Keeps the summaries of the runs executed in this session.
*/
package ports
