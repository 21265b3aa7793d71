// Package field computes the two-source interference pattern.
//
// For every pixel each source contributes sin(d/λ·2π)/max(1, d), where d is
// the pixel-to-source distance in meters and λ = 340/frequency. The summed
// amplitude is mapped to the green channel as (total+1)/2·255.
//
// [Render] and [RenderInto] produce the raster; [Annotate] and [DrawOverlay]
// add the source/observer markers and the dashed distance measures.
package field
