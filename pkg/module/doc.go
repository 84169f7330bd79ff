// Package module resolves the module specifiers found on module
// attributes into components.
//
// Two loaders are provided. Registry serves components compiled into the
// program. MarkupLoader serves HTML component modules read from a Source:
// a local directory (FSSource) or an S3 bucket (S3Source). Chain combines
// loaders, falling through on ErrNotFound.
//
// A markup module is a file of template elements, one per export:
//
//	<template export="default">
//	  <article class="card">
//	    <h2><slot name="title">Untitled</slot></h2>
//	    <slot></slot>
//	  </article>
//	</template>
//
// Calling the component clones the template, merges the caller's
// attributes onto its root element and replaces each slot with the
// caller's children (those with a matching slot attribute for named
// slots, the rest for the default slot). A slot with nothing to receive
// keeps its own content.
package module
