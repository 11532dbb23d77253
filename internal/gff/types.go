package gff

import "github.com/inodb/annograph/internal/graph"

// featureKinds maps GFF3 type terms to entity kinds. The table is closed:
// a new feature type has to be added here before files carrying it load.
var featureKinds = map[string]graph.Kind{
	"gene":                      graph.KindGene,
	"pseudogene":                graph.KindGene,
	"ncRNA_gene":                graph.KindGene,
	"transposable_element_gene": graph.KindGene,

	"mRNA":                   graph.KindTranscript,
	"transcript":             graph.KindTranscript,
	"primary_transcript":     graph.KindTranscript,
	"pseudogenic_transcript": graph.KindTranscript,
	"ncRNA":                  graph.KindTranscript,
	"lnc_RNA":                graph.KindTranscript,
	"miRNA":                  graph.KindTranscript,
	"rRNA":                   graph.KindTranscript,
	"snRNA":                  graph.KindTranscript,
	"snoRNA":                 graph.KindTranscript,
	"tRNA":                   graph.KindTranscript,

	"CDS": graph.KindCodingRegion,

	"exon":             graph.KindExon,
	"pseudogenic_exon": graph.KindExon,

	"five_prime_UTR":  graph.KindUTR,
	"three_prime_UTR": graph.KindUTR,
	"UTR":             graph.KindUTR,

	"intron":               graph.KindGeneric,
	"start_codon":          graph.KindGeneric,
	"stop_codon":           graph.KindGeneric,
	"polypeptide":          graph.KindGeneric,
	"protein_match":        graph.KindGeneric,
	"match_part":           graph.KindGeneric,
	"repeat_region":        graph.KindGeneric,
	"transposable_element": graph.KindGeneric,
}

// KindOf returns the entity kind for a GFF3 type term.
func KindOf(soType string) (graph.Kind, bool) {
	k, ok := featureKinds[soType]
	return k, ok
}
