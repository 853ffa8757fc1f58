// Package resilience masks transient element failures caused by page
// mutation.
//
// The Interceptor wraps element commands with a small, bounded state machine:
//
//	wait -> execute -> classify -> recover -> retry once -> surface
//
// Before executing, the implicit-wait gate resolves a live handle for the
// element. A failed execution is classified into one of:
//
//   - Not interactable: wait until the element is clickable, then retry once.
//     If it never becomes clickable, an InteractabilityError carrying an HTML
//     snapshot of the element is returned.
//
//   - Stale reference: re-locate the element, rebind the caller's handle in
//     place, then retry once.
//
//   - Anything else: returned unchanged.
//
// Safari reports missing elements as successful "no such element" payloads.
// On Safari sessions such results are classified as stale references.
//
// Recovery never nests: the retried attempt is returned as-is, whatever its
// outcome. Locator primitives (element.KindLocator) bypass the whole machine.
//
// # Usage
//
//	ic := resilience.NewInterceptor(
//	    resilience.WithDriver(session),
//	    resilience.WithLogger(logger),
//	)
//
//	click := ic.Wrap(element.Click, clickImpl)
//	_, err := click(ctx, handle)
package resilience
