// Package web hosts the storefront HTTP service.
//
// The storefront page is rendered through the variation engine: layout,
// card order, element attributes and decoy wrappers all follow the seed in
// the request, and user actions posted to /events/{type} override selected
// attributes for the visitor until the event expires.
package web
