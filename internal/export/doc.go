// Package export renders recorded runs and live canvases as SVG images.
package export
