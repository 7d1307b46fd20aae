// Package rootpath locates the DocTour-AI project root by walking upward from
// the running executable, and anchors every other file path (environment,
// configuration, logs, assets) off that root. The root is resolved once per
// process and cached; a missing root is fatal for every caller.
package rootpath
