// Package bridge exposes the functions of a core.FunctionRegistry as helpers
// of a text template engine.
//
// For every function the registrar installs one Helper under the name
// plugin + delimiter + function. When a template calls the helper, the bridge:
//
//  1. selects the binding mode from the raw arguments: a single
//     core.NamedArguments value binds by name, anything else by position
//  2. resolves and type-checks the arguments against the function metadata
//     (IsCompatible), failing before any invocation on a missing required
//     parameter, a type mismatch or a wrong argument count
//  3. commits the binding into the shared core.ExecutionContext
//  4. invokes the function and blocks until its asynchronous execution
//     completes (Invoker.Invoke is the only suspension point)
//  5. unwraps core.ContentResponse results to their payload
//
// Every failure is returned to the template engine, which aborts the render.
//
// Concurrency: helpers run on the goroutine executing the template. The
// ExecutionContext is not locked; give each concurrent render its own
// context (and its own helper registration).
package bridge
