/*
Package flo allows to build node graphs of sound and number sources and
render them chunk by chunk.

Concept

This package offers a pull-based perspective to synthesis. A graph consists
of two kinds of nodes:

    Sound sources - produce stereo chunks of audio;
    Number sources - produce one scalar value per sample.

Sound sources read audio through sound inputs and parameters through number
inputs. A SoundResult is the root of the graph: every call to its NextChunk
pulls one chunk through everything connected to it.

States

A single sound source can be reached from the root in many ways at once. A
mixer with two inputs connected to the same oscillator reaches it twice, an
ensemble with five voices reaches it five times. Every such path is a
context, and every context needs its own copy of the node's runtime data
(oscillator phase, filter memory, playback position). This data lives in a
State.

Each node owns a StateTable with one slot per context. When a wire is
connected, the nodes which became reachable receive new states; when it is
disconnected, the unreachable states are erased. Both operations propagate
incrementally through the graph, nothing is rebuilt from scratch.

Safety

Number sources may depend on state. The phase of an oscillator or the
frequency of an ensemble voice only exist within a context that passes
through that oscillator or voice. Connections which would let such a value
leak into a context that cannot reach its owner are rejected:

    g := flo.New()
    err := g.ConnectNumber(display.Input, osc.Phase)
    // errors.Is(err, flo.ErrUnsafeSource) == true

Execution

The graph itself is single-threaded. Graph serializes structural edits and
rendering with a single mutex, so the audio callback and the editing side
can share one graph:

    chunk := &flo.Chunk{}
    g.Render(result, chunk)
*/
package flo
