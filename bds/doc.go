package bds

/*

# BDS traversal of Merkle trees

Hash based signature schemes (XMSS and friends) reveal the leaves of a
Merkle tree strictly left to right, and each signature carries the
authentication path of the leaf used. Recomputing a path from scratch costs
O(2^H) hashes. The BDS algorithm (Buchmann, Dahmen & Szydlo) instead keeps a
small amount of state between leaves and does O(H) work per leaf, spread
evenly, using O(H) nodes of storage.

This package implements the traversal with the tree's hash functions
injected through TreeHasher. It does not sign anything and it does not
persist anything.

## Paths change bottom up

Going from leaf s to leaf s+1 the authentication path changes at every
height h <= tau, where tau is the lowest unset bit of s. Below, nodes are
numbered in the order the build creates them, the leaves are 0, 1, 3, 4 ...

	3                 14
	                /    \
	2            6         13
	           /   \      /   \
	1        2      5    9     12
	        / \    / \  / \   /  \
	0      0   1  3   4 7  8 10  11

For s = 3 (0b011, node 4), tau = 2: the new auth node at height 2 is the left half of
the tree, node 6, which is the parent of the old auth node at height 1 and a
node that was saved in KEEP when it was last on the path. Below tau, leaf
s+1 and its ancestors are left children, so every height h < tau gets the
right sibling of the height h ancestor of leaf s+1. For s = 3 these are
leaf 5 (node 8) and the parent of leaves 6 and 7 (node 12).

## Where the nodes come from

  - height 0: the leaf s itself, whenever tau == 0
  - height tau > 0: HashChildren(AUTH[tau-1], KEEP)
  - heights below tau, h < H-K: a treehash instance which was restarted
    3 * 2^h leaves earlier and has computed the node incrementally
  - heights below tau, h >= H-K: the RETAIN table, filled once at setup.
    The top K levels have so few nodes that storing them (2^K - K - 1 in
    total) is cheaper than scheduling their computation.

## Scheduling

After each leaf the state runs (H-K)/2 scheduler rounds. A round gives one
leaf of work to the incomplete treehash instance whose stack holds the lowest
node; an instance which has not started counts as being at its own height.
This greedy policy is what bounds the per leaf cost while guaranteeing that
no instance is read before it has completed. The ordering contract is
strict: Traverse must see the leaves 0, 1, 2 ... with no gaps and no repeats.

## RETAIN layout

Height h in [H-K, H-2] retains the right nodes with row index 3, 5, 7 ...
(row index 1 is the setup auth node). With rows numbered (index-3)/2 and the
heights stored from the top down, the slot for a node is

	offset(h) = 2^(H-1-h) + h - H
	slot      = offset(h) + row

so a lookup is pure index arithmetic, see RetainOffset.

## Forests

Forest stacks D layers of trees of height H. Each layer traverses its current
subtree with its own State while the next subtree of the layer is built in
the background. The bottom layer's next subtree gets exactly one leaf per
step; the upper layers are fed from whatever scheduler budget the layers
below did not spend. When a subtree is exhausted its successor is swapped in
and a fresh next subtree is started. Signing the new subtree root with the
layer above is left to the caller.

*/
