/*
Package compiler is the entry point of the job compiler. It sequences the
stages that turn a set of computation definitions into an acyclic unit graph:

 1. Partition policies are unified (an explicit job policy overrides).
 2. Inputs are resolved against produced keys and source assets.
 3. The unit graph is assembled and checked for cycles.
 4. If a cycle is found, one resolution pass splits the computations that
    caused it, and steps 2 and 3 run again. A cycle that survives is a
    DefinitionError naming the cyclic units.
 5. Resource bindings are merged and requirements checked.

The compiled result is handed to a Translator, which turns it into whatever
job representation the caller executes. Compile performs no I/O and keeps no
state between calls.
*/
package compiler
