// Package render draws validated module graphs with Graphviz.
//
// [ToDOT] emits DOT with the tool's styling conventions: boxes filled by
// year, one rank row per programme year, and relation kinds distinguished
// by colour, arrowhead, and line style (prerequisites solid red,
// corequisites solid purple, suggestions dashed blue, exclusions bold red).
//
// [RenderSVG] and [RenderPNG] rasterize DOT in-process via goccy/go-graphviz;
// [RenderPDF] goes through SVG and the external rsvg-convert tool.
package render
